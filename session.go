package procmesh

import (
	"errors"
	"sync"
)

// ErrSessionAlreadyRun is returned by Run/RunContinue if the Session has
// already been run once. A Session is single-use; construct a fresh one
// (over the same *Def) for each run.
var ErrSessionAlreadyRun = errors.New("procmesh: session has already been run")

// RunResult is what a completed Session produces (spec.md §5
// "run_session"): the global result map (one entry per process that
// called SetResult) and the per-process Terminate return values, which a Program
// forwards into the next mode's Session via RunContinue.
type RunResult struct {
	Results      map[ProcessID]any
	Terminations map[ProcessID]any
}

// Session is one assembly of a validated Def into live channels and
// goroutines (spec.md §4-§5). It is single-use: call Run or RunContinue
// exactly once.
type Session struct {
	def    *Def
	opts   *sessionOptions
	warner warner
	state  *procState
}

// NewSession prepares a Session over def. Channels and processes aren't
// assembled until Run/RunContinue is called.
func NewSession(def *Def, opts ...SessionOption) *Session {
	cfg := resolveSessionOptions(opts)
	return &Session{
		def:    def,
		opts:   cfg,
		warner: newWarner(cfg.logger, cfg.warningRates),
		state:  newProcState(),
	}
}

// Run assembles fresh channels, spawns one goroutine per declared
// process, and waits for all of them to end.
func (s *Session) Run() (*RunResult, error) {
	return s.run(nil)
}

// RunContinue runs the session identically to Run, except each process's
// Proc.Continuation() is seeded from continuations: the Terminations map
// of a prior session in the same Program (spec.md §6 "program state
// machines").
func (s *Session) RunContinue(continuations map[ProcessID]any) (*RunResult, error) {
	return s.run(continuations)
}

func (s *Session) run(continuations map[ProcessID]any) (*RunResult, error) {
	if !s.state.transition(StateReady, StateRunning) {
		return nil, ErrSessionAlreadyRun
	}
	defer s.state.transition(StateRunning, StateEnded)

	channels := make(map[ChannelID]*channel, len(s.def.channels))
	for _, cd := range s.def.channels {
		channels[cd.ID] = newChannel(cd)
	}

	procs := make(map[ProcessID]*Proc, len(s.def.processes))
	for i := range s.def.processes {
		desc := &s.def.processes[i]
		p := &Proc{
			id:           desc.ID,
			name:         desc.Name,
			sourcepoints: make(map[ChannelID]*Sourcepoint, len(desc.Sourcepoints)),
			endpoints:    make(map[ChannelID]*Endpoint, len(desc.Endpoints)),
		}
		if continuations != nil {
			p.continuation = continuations[desc.ID]
		}
		for _, cid := range desc.Sourcepoints {
			p.sourcepoints[cid] = channels[cid].sourcepoint(desc.ID)
		}
		for _, cid := range desc.Endpoints {
			p.endpoints[cid] = channels[cid].endpoint(desc.ID)
		}
		procs[desc.ID] = p
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		results      = make(map[ProcessID]any, len(s.def.processes))
		terminations = make(map[ProcessID]any, len(s.def.processes))
		firstErr     error
	)
	recordErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := range s.def.processes {
		desc := &s.def.processes[i]
		p := procs[desc.ID]
		wg.Add(1)
		go func(desc *ProcessDesc, p *Proc) {
			defer wg.Done()
			defer releaseHandles(p)
			defer func() {
				if r := recover(); r != nil {
					s.warner.panicked(p.id, p.name, r)
					recordErr(&PanicError{Process: p.id, Value: r})
				}
			}()

			s.warner.processStart(p.id, p.name)

			if desc.Initialize != nil {
				if err := desc.Initialize(p); err != nil {
					recordErr(err)
					return
				}
			}

			runProcess(p, desc, s.warner)

			var term any
			if desc.Terminate != nil {
				term = desc.Terminate(p)
			}

			s.warner.processEnd(p.id, p.name)

			mu.Lock()
			terminations[p.id] = term
			if p.hasResult {
				results[p.id] = p.result
			}
			mu.Unlock()
		}(desc, p)
	}

	wg.Wait()

	for _, c := range channels {
		if n := c.orphans(); n > 0 {
			s.warner.orphanMessages(c.desc.ID, c.desc.Name, n)
		}
	}

	return &RunResult{Results: results, Terminations: terminations}, firstErr
}

// releaseHandles drops every sourcepoint/endpoint a process held, so
// peers blocked in a receive or polling for Disconnected are woken even
// if the process ended abnormally (panic, Initialize error).
func releaseHandles(p *Proc) {
	for _, sp := range p.sourcepoints {
		sp.Release()
	}
	for _, ep := range p.endpoints {
		ep.Release()
	}
}
