package procmesh

import "fmt"

// ProcessID identifies a process within a session context. IDs are dense
// from 0, so they double as indexes into small per-process slices.
type ProcessID int

// ChannelID identifies a channel within a session context, dense from 0.
type ChannelID int

// Kind selects the run-loop discipline a process is driven by.
type Kind int

const (
	// Isochronous is timed polling with catch-up: missed ticks are
	// reclaimed on a fixed schedule.
	Isochronous Kind = iota
	// Mesochronous is timed polling, rate-limited: missed ticks are not
	// reclaimed, the schedule slips instead.
	Mesochronous
	// Anisochronous is untimed polling: no sleep, no tick budget.
	Anisochronous
	// Asynchronous is blocking receive on a single endpoint.
	Asynchronous
)

func (k Kind) String() string {
	switch k {
	case Isochronous:
		return "Isochronous"
	case Mesochronous:
		return "Mesochronous"
	case Anisochronous:
		return "Anisochronous"
	case Asynchronous:
		return "Asynchronous"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Topology selects a channel's producer/consumer cardinality and
// delivery semantics.
type Topology int

const (
	// Simplex is an unbounded single-producer single-consumer channel.
	Simplex Topology = iota
	// Sink is an unbounded multi-producer single-consumer channel.
	Sink
	// Source is an unbounded single-producer multi-consumer channel with
	// unicast delivery: the producer picks a consumer per send.
	Source
)

func (t Topology) String() string {
	switch t {
	case Simplex:
		return "Simplex"
	case Sink:
		return "Sink"
	case Source:
		return "Source"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ControlFlow is returned by Update and HandleMessage callbacks to
// signal whether the process/endpoint should keep running.
type ControlFlow int

const (
	// Continue keeps the process (or, from HandleMessage in a polling
	// process, the endpoint) running.
	Continue ControlFlow = iota
	// Break terminates the process (from Update, or from HandleMessage in
	// an Asynchronous process) or closes just the originating endpoint
	// (from HandleMessage in a polling process).
	Break
)

// RecvOutcome is the result of a single receive attempt on an Endpoint.
type RecvOutcome int

const (
	// Delivered means a message was returned.
	Delivered RecvOutcome = iota
	// Empty means no message was available (TryRecv only).
	Empty
	// Disconnected means every producer handle has been released and the
	// queue is empty; no further messages will ever arrive.
	Disconnected
)

func (o RecvOutcome) String() string {
	switch o {
	case Delivered:
		return "Delivered"
	case Empty:
		return "Empty"
	case Disconnected:
		return "Disconnected"
	default:
		return fmt.Sprintf("RecvOutcome(%d)", int(o))
	}
}
