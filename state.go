package procmesh

import "sync/atomic"

// ProcState is the lifecycle of a Session (spec.md §3 "Lifecycles"):
// Ready -> Running -> Ended.
type ProcState uint32

const (
	// StateReady: the Session has been created but not yet run.
	StateReady ProcState = iota
	// StateRunning: Run/RunContinue is in progress.
	StateRunning
	// StateEnded: every process goroutine has finished and its result
	// and Terminate value have been collected.
	StateEnded
)

func (s ProcState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// procState is a small atomic CAS state machine, one per Session, used
// to make a Session single-use: Run/RunContinue succeed only from
// StateReady.
type procState struct {
	v atomic.Uint32
}

func newProcState() *procState {
	s := &procState{}
	s.v.Store(uint32(StateReady))
	return s
}

func (s *procState) load() ProcState { return ProcState(s.v.Load()) }

func (s *procState) transition(from, to ProcState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
