package procmesh

import (
	"runtime"
	"time"
)

// openSet tracks which of a polling process's endpoints are still being
// serviced (spec.md §4.4 "shared state per polling loop"). It shrinks
// monotonically: an endpoint is closed on HandleMessage returning Break,
// or on observing Disconnected, and is never reopened.
type openSet struct {
	order     []ChannelID
	closed    map[ChannelID]bool
	remaining int
}

func newOpenSet(endpoints []ChannelID) *openSet {
	return &openSet{
		order:     endpoints,
		closed:    make(map[ChannelID]bool, len(endpoints)),
		remaining: len(endpoints),
	}
}

// ordered returns the still-open endpoints, in declared order.
func (o *openSet) ordered() []ChannelID {
	if o.remaining == len(o.order) {
		return o.order
	}
	out := make([]ChannelID, 0, o.remaining)
	for _, ep := range o.order {
		if !o.closed[ep] {
			out = append(out, ep)
		}
	}
	return out
}

func (o *openSet) close(ep ChannelID) {
	if o.closed[ep] {
		return
	}
	o.closed[ep] = true
	o.remaining--
}

func (o *openSet) empty() bool { return o.remaining == 0 }

// pollResult summarizes one full pass over a polling process's open
// endpoints: the number of messages delivered, which runAnisochronous
// uses to decide whether to yield.
type pollResult struct {
	delivered int
}

// pollOnce drains every open endpoint in declared order until each
// reports Empty or is closed, invoking desc.HandleMessage per delivered
// message. It never drains an already-closed endpoint (spec.md §9:
// "avoids the source's original bug of polling disconnected
// endpoints").
func pollOnce(p *Proc, desc *ProcessDesc, open *openSet, w warner) pollResult {
	var res pollResult
	for _, ep := range open.ordered() {
		endpoint := p.endpoints[ep]
		for {
			msg, outcome := endpoint.TryRecv()
			switch outcome {
			case Delivered:
				res.delivered++
				if desc.HandleMessage(p, ep, msg) == Break {
					open.close(ep)
					goto nextEndpoint
				}
			case Empty:
				goto nextEndpoint
			case Disconnected:
				w.endpointDisconnected(p.id, p.name, ep)
				open.close(ep)
				goto nextEndpoint
			}
		}
	nextEndpoint:
	}
	return res
}

func callUpdate(desc *ProcessDesc, p *Proc) ControlFlow {
	if desc.Update == nil {
		return Continue
	}
	return desc.Update(p)
}

// runTimedPolling drives Isochronous (catchUp=true) and Mesochronous
// (catchUp=false) processes (spec.md §4.4). The only difference between
// the two is how next_deadline advances once a tick's work is done:
// Isochronous adds a fixed tick_ms, reclaiming any backlog on the next
// iteration without sleeping; Mesochronous resyncs to max(now,
// next_deadline)+tick_ms, letting a missed tick slip rather than
// catching up.
func runTimedPolling(p *Proc, desc *ProcessDesc, w warner, catchUp bool) {
	tick := desc.TickInterval
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticksPerUpdate := desc.TicksPerUpdate
	if ticksPerUpdate <= 0 {
		ticksPerUpdate = 1
	}

	hadEndpoints := len(desc.Endpoints) > 0
	open := newOpenSet(desc.Endpoints)
	nextDeadline := time.Now().Add(tick)
	tickInUpdate := 0

	for {
		now := time.Now()
		if now.Before(nextDeadline) {
			time.Sleep(time.Until(nextDeadline))
			continue
		}

		if now.Sub(nextDeadline) >= tick {
			w.lateTick(p.id, p.name)
		}

		pollOnce(p, desc, open, w)

		tickInUpdate++
		if tickInUpdate == ticksPerUpdate {
			if callUpdate(desc, p) == Break {
				return
			}
			tickInUpdate = 0
		}

		if hadEndpoints && open.empty() {
			return
		}

		if catchUp {
			nextDeadline = nextDeadline.Add(tick)
		} else if now.After(nextDeadline) {
			nextDeadline = now.Add(tick)
		} else {
			nextDeadline = nextDeadline.Add(tick)
		}
	}
}

// runAnisochronous drives untimed polling: no sleep, no tick budget.
// Each outer iteration polls every open endpoint, then calls Update.
// Open Question (spec.md §9) resolved: stays busy-polling rather than
// auto-promoting a lone remaining endpoint to a blocking receive, to
// keep behavior predictable; a runtime.Gosched() yield is inserted after
// a pass that delivered nothing, so an idle Anisochronous process
// doesn't peg a core. Gosched never suspends the goroutine on a channel
// wait, so this doesn't violate "Anisochronous never suspends".
func runAnisochronous(p *Proc, desc *ProcessDesc, w warner) {
	hadEndpoints := len(desc.Endpoints) > 0
	open := newOpenSet(desc.Endpoints)

	for {
		res := pollOnce(p, desc, open, w)

		if callUpdate(desc, p) == Break {
			return
		}

		if hadEndpoints && open.empty() {
			return
		}

		if res.delivered == 0 {
			runtime.Gosched()
		}
	}
}

// runAsynchronous drives a blocking process with exactly one endpoint
// (I4), per spec.md §4.4.
func runAsynchronous(p *Proc, desc *ProcessDesc, w warner) {
	messagesPerUpdate := desc.MessagesPerUpdate
	if messagesPerUpdate <= 0 {
		messagesPerUpdate = 1
	}
	ep := desc.Endpoints[0]
	endpoint := p.endpoints[ep]

	messagesSinceUpdate := 0
	for {
		msg, outcome := endpoint.Recv()
		switch outcome {
		case Delivered:
			if desc.HandleMessage(p, ep, msg) == Break {
				return
			}
			messagesSinceUpdate++
			if messagesSinceUpdate == messagesPerUpdate {
				if callUpdate(desc, p) == Break {
					return
				}
				messagesSinceUpdate = 0
			}
		case Disconnected:
			w.endpointDisconnected(p.id, p.name, ep)
			return
		}
	}
}

// runProcess dispatches to the run loop selected by desc.Kind.
func runProcess(p *Proc, desc *ProcessDesc, w warner) {
	switch desc.Kind {
	case Isochronous:
		runTimedPolling(p, desc, w, true)
	case Mesochronous:
		runTimedPolling(p, desc, w, false)
	case Anisochronous:
		runAnisochronous(p, desc, w)
	case Asynchronous:
		runAsynchronous(p, desc, w)
	default:
		panic("procmesh: unknown process kind")
	}
}
