package procmesh

import (
	"errors"
	"fmt"
	"strings"
)

// DefErrorKind enumerates the ways a Builder can fail validation.
type DefErrorKind int

const (
	// UnknownProcessID: a channel names a producer/consumer id that
	// doesn't resolve to a declared process.
	UnknownProcessID DefErrorKind = iota
	// UnknownChannelID: a process names a sourcepoint/endpoint id that
	// doesn't resolve to a declared channel.
	UnknownChannelID
	// TopologyCardinalityMismatch: a channel's producer/consumer count
	// doesn't match its topology (I2).
	TopologyCardinalityMismatch
	// AsymmetricConnectivity: a channel and one of its producers/
	// consumers disagree about the connection (I3).
	AsymmetricConnectivity
	// AsyncRequiresSingleEndpoint: an Asynchronous process doesn't
	// declare exactly one endpoint (I4).
	AsyncRequiresSingleEndpoint
	// IDSpaceSparse: the process or channel id space has a gap (I6).
	IDSpaceSparse
	// ResultVariantMismatch: the declared-result process set doesn't
	// match what the global result variant set requires (I7).
	ResultVariantMismatch
	// ProgramTransitionCoherence: a program-level invariant (P1 or P2)
	// failed, or a transition or the initial mode names an undeclared
	// mode. P3 (reachability) never produces this; see
	// ProgramDef.Unreachable.
	ProgramTransitionCoherence
)

func (k DefErrorKind) String() string {
	switch k {
	case UnknownProcessID:
		return "UnknownProcessID"
	case UnknownChannelID:
		return "UnknownChannelID"
	case TopologyCardinalityMismatch:
		return "TopologyCardinalityMismatch"
	case AsymmetricConnectivity:
		return "AsymmetricConnectivity"
	case AsyncRequiresSingleEndpoint:
		return "AsyncRequiresSingleEndpoint"
	case IDSpaceSparse:
		return "IDSpaceSparse"
	case ResultVariantMismatch:
		return "ResultVariantMismatch"
	case ProgramTransitionCoherence:
		return "ProgramTransitionCoherence"
	default:
		return fmt.Sprintf("DefErrorKind(%d)", int(k))
	}
}

// DefIssue identifies one invariant violation found during validation.
type DefIssue struct {
	Kind      DefErrorKind
	ProcessID *ProcessID
	ChannelID *ChannelID
	Message   string
}

func (i DefIssue) Error() string {
	var where string
	switch {
	case i.ProcessID != nil && i.ChannelID != nil:
		where = fmt.Sprintf(" (process %d, channel %d)", *i.ProcessID, *i.ChannelID)
	case i.ProcessID != nil:
		where = fmt.Sprintf(" (process %d)", *i.ProcessID)
	case i.ChannelID != nil:
		where = fmt.Sprintf(" (channel %d)", *i.ChannelID)
	}
	return fmt.Sprintf("procmesh: %s%s: %s", i.Kind, where, i.Message)
}

func procIssue(kind DefErrorKind, pid ProcessID, format string, args ...any) DefIssue {
	return DefIssue{Kind: kind, ProcessID: &pid, Message: fmt.Sprintf(format, args...)}
}

func chanIssue(kind DefErrorKind, cid ChannelID, format string, args ...any) DefIssue {
	return DefIssue{Kind: kind, ChannelID: &cid, Message: fmt.Sprintf(format, args...)}
}

func procChanIssue(kind DefErrorKind, pid ProcessID, cid ChannelID, format string, args ...any) DefIssue {
	return DefIssue{Kind: kind, ProcessID: &pid, ChannelID: &cid, Message: fmt.Sprintf(format, args...)}
}

// DefError aggregates every invariant violation found during a single
// validation pass, so a caller can see all of them, not just the first.
type DefError struct {
	Issues []DefIssue
}

func (e *DefError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "procmesh: %d validation issues:", len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue.Error())
	}
	return b.String()
}

// Unwrap exposes every issue for errors.Is/errors.As matching.
func (e *DefError) Unwrap() []error {
	out := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue
	}
	return out
}

// Is reports whether target is a DefIssue of the same Kind as any issue
// in e, or another *DefError.
func (e *DefError) Is(target error) bool {
	var other *DefError
	if errors.As(target, &other) {
		return true
	}
	var issue DefIssue
	if errors.As(target, &issue) {
		for _, i := range e.Issues {
			if i.Kind == issue.Kind {
				return true
			}
		}
	}
	return false
}

// SendError is returned by Sourcepoint.Send/SendTo when the receiving
// endpoint has been released (for SendTo, the named consumer's endpoint),
// or when the sourcepoint itself has been released. The message that
// failed to send is returned so the caller can recover it.
type SendError struct {
	Channel ChannelID
	Msg     any
}

func (e *SendError) Error() string {
	return fmt.Sprintf("procmesh: send on channel %d: all consumers disconnected", e.Channel)
}

// ProgramError wraps the error a mode's Session run returned (a
// converted panic, or an Initialize error) while running a Program.
type ProgramError struct {
	Mode string
	Err  error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("procmesh: program halted in mode %q: %s", e.Mode, e.Err)
}

func (e *ProgramError) Unwrap() error { return e.Err }

// PanicError wraps a panic recovered from a user callback, converted to
// a session-level error by the runner.
type PanicError struct {
	Process ProcessID
	Value   any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("procmesh: process %d panicked: %v", e.Process, e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
