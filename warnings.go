package procmesh

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// defaultWarningRates throttles each (process, warning-kind) category to
// at most one log line per second, so a noisy peer (a process ticking
// far behind schedule, or flapping a channel) can't flood the log.
// Overridable with WithWarningRates.
func defaultWarningRates() map[time.Duration]int {
	return map[time.Duration]int{time.Second: 1}
}

type warnKind string

const (
	warnLateTick           warnKind = "late_tick"
	warnOrphanMessage      warnKind = "orphan_message"
	warnEndpointDisconnect warnKind = "endpoint_disconnected"
)

type warnCategory struct {
	kind warnKind
	proc ProcessID
}

// warner bundles a Logger with a *catrate.Limiter so the run loops and
// session runner can emit throttled runtime warnings (spec.md §7.5)
// without each call site re-deriving a rate-limit key.
type warner struct {
	logger  Logger
	limiter *catrate.Limiter
}

func newWarner(logger Logger, rates map[time.Duration]int) warner {
	if logger == nil {
		logger = disabledLogger()
	}
	if len(rates) == 0 {
		rates = defaultWarningRates()
	}
	return warner{logger: logger, limiter: catrate.NewLimiter(rates)}
}

func (w warner) lateTick(proc ProcessID, name string) {
	if _, ok := w.limiter.Allow(warnCategory{warnLateTick, proc}); !ok {
		return
	}
	w.logger.Warning().Str("process", name).Int64("process_id", int64(proc)).Log("late tick")
}

func (w warner) orphanMessages(channel ChannelID, name string, count int) {
	if count == 0 {
		return
	}
	if _, ok := w.limiter.Allow(warnCategory{warnOrphanMessage, ProcessID(channel)}); !ok {
		return
	}
	w.logger.Warning().Str("channel", name).Int64("channel_id", int64(channel)).Int64("count", int64(count)).Log("orphan messages at session tear-down")
}

func (w warner) endpointDisconnected(proc ProcessID, name string, endpoint ChannelID) {
	if _, ok := w.limiter.Allow(warnCategory{warnEndpointDisconnect, proc}); !ok {
		return
	}
	w.logger.Warning().Str("process", name).Int64("endpoint", int64(endpoint)).Log("endpoint disconnected")
}

func (w warner) processStart(proc ProcessID, name string) {
	w.logger.Info().Str("process", name).Int64("process_id", int64(proc)).Log("process starting")
}

func (w warner) processEnd(proc ProcessID, name string) {
	w.logger.Info().Str("process", name).Int64("process_id", int64(proc)).Log("process ended")
}

func (w warner) panicked(proc ProcessID, name string, value any) {
	w.logger.Err().Str("process", name).Int64("process_id", int64(proc)).Interface("panic", value).Log("process panicked")
}

func (w warner) validationFailed(what string, err error) {
	w.logger.Err().Str("what", what).Err(err).Log("validation failed")
}

// logValidationFailure logs a validation failure through the first
// logger supplied (if any), falling back to a disabled logger. Validate
// and ValidateProgram both take an optional trailing Logger for exactly
// this: spec.md §6 lists "validation errors" among the events the
// runtime's logging sink emits, even though validation itself stays pure
// (no threads, no channels).
func logValidationFailure(loggers []Logger, what string, err error) {
	var logger Logger
	if len(loggers) > 0 {
		logger = loggers[0]
	}
	newWarner(logger, nil).validationFailed(what, err)
}
