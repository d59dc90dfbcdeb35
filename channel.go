package procmesh

// Sourcepoint is the producer-side handle to a channel, held by exactly
// one process (or, for Sink, one per producer process).
type Sourcepoint struct {
	id       ChannelID
	topology Topology
	simplex  *unboundedQueue[any]
	source   map[ProcessID]*unboundedQueue[any]
	released bool
}

// Send enqueues msg for the channel's (single, for Simplex/Sink) sink of
// consumers. It panics if called on a Source sourcepoint; use SendTo.
// Send never blocks. It fails only once every consumer of the channel
// has released its endpoint, in which case msg is returned unsent inside
// a *SendError.
func (s *Sourcepoint) Send(msg any) error {
	if s.topology == Source {
		panic("procmesh: Send called on a Source sourcepoint; use SendTo")
	}
	if s.released || !s.simplex.push(msg) {
		return &SendError{Channel: s.id, Msg: msg}
	}
	return nil
}

// SendTo enqueues msg for delivery to exactly one named consumer of a
// Source channel (unicast). It panics if called on a non-Source
// sourcepoint, or if consumer is not declared as a consumer of this
// channel.
func (s *Sourcepoint) SendTo(consumer ProcessID, msg any) error {
	if s.topology != Source {
		panic("procmesh: SendTo called on a non-Source sourcepoint")
	}
	q, ok := s.source[consumer]
	if !ok {
		panic("procmesh: SendTo: consumer is not a declared consumer of this channel")
	}
	if s.released || !q.push(msg) {
		return &SendError{Channel: s.id, Msg: msg}
	}
	return nil
}

// Release drops this producer handle. It is idempotent: once released,
// every queue this sourcepoint fed observes one fewer live producer,
// eventually letting consumers see Disconnected.
func (s *Sourcepoint) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.topology == Source {
		for _, q := range s.source {
			q.releaseProducer()
		}
		return
	}
	s.simplex.releaseProducer()
}

// ID returns the channel this handle produces for.
func (s *Sourcepoint) ID() ChannelID { return s.id }

// Endpoint is the consumer-side handle to a channel, held by exactly one
// process (or, for Source, one per consumer process, each with its own
// private queue).
type Endpoint struct {
	id       ChannelID
	q        *unboundedQueue[any]
	released bool
}

// TryRecv is the nonblocking receive used by polling run loops.
func (e *Endpoint) TryRecv() (any, RecvOutcome) {
	if e.released {
		return nil, Disconnected
	}
	return e.q.tryPop()
}

// Recv blocks until a message is available or the channel disconnects.
// Used by the Asynchronous run loop.
func (e *Endpoint) Recv() (any, RecvOutcome) {
	if e.released {
		return nil, Disconnected
	}
	return e.q.pop()
}

// Release drops this consumer handle, causing subsequent sends on the
// producer side to fail. Idempotent.
func (e *Endpoint) Release() {
	if e.released {
		return
	}
	e.released = true
	e.q.closeConsumer()
}

// ID returns the channel this handle consumes from.
func (e *Endpoint) ID() ChannelID { return e.id }

// channel is the runtime instance of a ChannelDesc: the queue(s)
// backing it, from which per-process Sourcepoint/Endpoint handles are
// minted when a Session is assembled.
type channel struct {
	desc   ChannelDesc
	simple *unboundedQueue[any]          // Simplex, Sink
	byCons map[ProcessID]*unboundedQueue[any] // Source
}

func newChannel(desc ChannelDesc) *channel {
	c := &channel{desc: desc}
	switch desc.Topology {
	case Source:
		c.byCons = make(map[ProcessID]*unboundedQueue[any], len(desc.Consumers))
		for _, consumer := range desc.Consumers {
			c.byCons[consumer] = newUnboundedQueue[any](1)
		}
	default:
		c.simple = newUnboundedQueue[any](len(desc.Producers))
	}
	return c
}

// sourcepoint mints a fresh producer handle for the given producer
// process. For Sink, each producer process gets its own handle over the
// same shared queue, so each can independently Release.
func (c *channel) sourcepoint(ProcessID) *Sourcepoint {
	if c.desc.Topology == Source {
		return &Sourcepoint{id: c.desc.ID, topology: Source, source: c.byCons}
	}
	return &Sourcepoint{id: c.desc.ID, topology: c.desc.Topology, simplex: c.simple}
}

// endpoint mints a fresh consumer handle for the given consumer process.
func (c *channel) endpoint(consumer ProcessID) *Endpoint {
	if c.desc.Topology == Source {
		return &Endpoint{id: c.desc.ID, q: c.byCons[consumer]}
	}
	return &Endpoint{id: c.desc.ID, q: c.simple}
}

// orphans reports the count of undelivered messages left in the
// channel, summed across all of its queues.
func (c *channel) orphans() int {
	if c.desc.Topology == Source {
		total := 0
		for _, q := range c.byCons {
			q.mu.Lock()
			total += len(q.items)
			q.mu.Unlock()
		}
		return total
	}
	c.simple.mu.Lock()
	defer c.simple.mu.Unlock()
	return len(c.simple.items)
}
