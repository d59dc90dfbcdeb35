package procmesh

// Proc is the capability set a process's callbacks (Initialize,
// HandleMessage, Update, Terminate) receive (spec.md §6). It exposes
// send operations over the process's declared sourcepoints, read/write
// access to its result slot, and the continuation payload forwarded
// from a prior session (if this Session was started with RunContinue).
type Proc struct {
	id           ProcessID
	name         string
	sourcepoints map[ChannelID]*Sourcepoint
	endpoints    map[ChannelID]*Endpoint
	continuation any
	result       any
	hasResult    bool
}

// ID returns this process's id.
func (p *Proc) ID() ProcessID { return p.id }

// Name returns this process's declared name (for logging/DOT labels).
func (p *Proc) Name() string { return p.name }

// Send enqueues msg on the named Simplex or Sink sourcepoint. It panics
// if ch is not one of this process's declared sourcepoints, or if ch
// names a Source channel (use SendTo).
func (p *Proc) Send(ch ChannelID, msg any) error {
	sp := p.mustSourcepoint(ch)
	return sp.Send(msg)
}

// SendTo enqueues msg for delivery to exactly one consumer of the named
// Source sourcepoint. It panics if ch is not one of this process's
// declared sourcepoints, or if ch does not name a Source channel.
func (p *Proc) SendTo(ch ChannelID, consumer ProcessID, msg any) error {
	sp := p.mustSourcepoint(ch)
	return sp.SendTo(consumer, msg)
}

func (p *Proc) mustSourcepoint(ch ChannelID) *Sourcepoint {
	sp, ok := p.sourcepoints[ch]
	if !ok {
		panic("procmesh: process has no sourcepoint for this channel")
	}
	return sp
}

// ResultRef returns the process's current result value (nil/zero if
// none has been set yet).
func (p *Proc) ResultRef() any { return p.result }

// SetResult sets the process's local result, read back as this
// process's variant of the session's global result once the process
// ends.
func (p *Proc) SetResult(v any) {
	p.result = v
	p.hasResult = true
}

// Continuation returns the state forwarded to this process from a prior
// session's Terminate hook, via Session.RunContinue and a Program
// transition's continuation map. Nil if this process was started fresh.
func (p *Proc) Continuation() any { return p.continuation }

// ExtractResult performs the checked unwrap spec.md §3/§6 calls
// extract_result: it looks process id up in results (the map returned
// by Session.Run), and type-asserts its value to T. It reports false if
// the process produced no result, or its result isn't a T.
func ExtractResult[T any](results map[ProcessID]any, id ProcessID) (T, bool) {
	var zero T
	v, ok := results[id]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
