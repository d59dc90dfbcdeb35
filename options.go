package procmesh

import "time"

// sessionOptions holds the resolved configuration for a Session,
// assembled the same way eventloop.loopOptions is: a private struct
// filled in by a chain of SessionOption closures.
type sessionOptions struct {
	logger        Logger
	warningRates  map[time.Duration]int
}

// SessionOption configures a Session created by NewSession.
type SessionOption interface {
	applySession(*sessionOptions)
}

type sessionOptionFunc func(*sessionOptions)

func (f sessionOptionFunc) applySession(o *sessionOptions) { f(o) }

// WithLogger sets the Logger a Session (and the processes it runs)
// emits events through. The zero value falls back to a disabled logger.
func WithLogger(logger Logger) SessionOption {
	return sessionOptionFunc(func(o *sessionOptions) { o.logger = logger })
}

// WithWarningRates overrides the sliding-window rate limits used to
// throttle runtime warnings (late tick, orphan message, disconnected-
// before-quit). See defaultWarningRates for the default.
func WithWarningRates(rates map[time.Duration]int) SessionOption {
	return sessionOptionFunc(func(o *sessionOptions) { o.warningRates = rates })
}

func resolveSessionOptions(opts []SessionOption) *sessionOptions {
	cfg := &sessionOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applySession(cfg)
	}
	return cfg
}

// programOptions holds the resolved configuration for a Program.
type programOptions struct {
	logger       Logger
	warningRates map[time.Duration]int
}

// ProgramOption configures a Program created by NewProgram.
type ProgramOption interface {
	applyProgram(*programOptions)
}

type programOptionFunc func(*programOptions)

func (f programOptionFunc) applyProgram(o *programOptions) { f(o) }

// WithProgramLogger sets the Logger every mode's Session is run with.
func WithProgramLogger(logger Logger) ProgramOption {
	return programOptionFunc(func(o *programOptions) { o.logger = logger })
}

// WithProgramWarningRates overrides the rate limits used across every
// mode's Session; see WithWarningRates.
func WithProgramWarningRates(rates map[time.Duration]int) ProgramOption {
	return programOptionFunc(func(o *programOptions) { o.warningRates = rates })
}

func resolveProgramOptions(opts []ProgramOption) *programOptions {
	cfg := &programOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyProgram(cfg)
	}
	return cfg
}
