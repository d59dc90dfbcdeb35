package procmesh

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured-logging facade the runtime emits events
// through: process start/end, late-tick warnings, orphan-message
// warnings, disconnected-before-quit notices, and validation errors
// (spec.md §6). It is an alias for the real
// github.com/joeycumines/logiface logger, parameterized over the
// github.com/joeycumines/stumpy JSON event implementation. The event type
// is fixed to *stumpy.Event, so a logger built over another logiface
// backend (zerolog, logrus, slog) cannot be supplied directly.
type Logger = *logiface.Logger[*stumpy.Event]

// NewDefaultLogger returns a Logger that writes JSON-encoded events to
// stderr via stumpy, at the given minimum level. Use logiface.LevelTrace
// through logiface.LevelEmergency.
func NewDefaultLogger(level logiface.Level) Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(level),
	)
}

// disabledLogger returns a Logger that discards everything, used as the
// fallback when no logger is configured.
func disabledLogger() Logger {
	return stumpy.L.New(stumpy.L.WithLevel(logiface.LevelDisabled))
}
