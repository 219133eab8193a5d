package flog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tcallahan/flog/backends"
	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/internal/reentry"
	"github.com/tcallahan/flog/selflog"
)

// Logger checks levels, applies rate limits and dispatches records to its
// backends. Loggers are immutable and safe for concurrent use; derived
// loggers from WithName and With share the parent's backends.
type Logger struct {
	name         string
	minimumLevel core.Level
	levelSwitch  *LevelSwitch
	backends     []core.Backend
	states       []*backendState
	fallback     core.Backend
	clock        func() time.Time
	metadata     core.Metadata
}

// backendState latches per-backend diagnostics so a broken backend warns
// once instead of flooding selflog.
type backendState struct {
	warned atomic.Bool
}

// New builds a logger from options. Without WithBackend the logger writes
// to a console backend on standard error; without WithMinimumLevel the
// minimum is Information. Records a backend fails to write go to the
// fallback backend, a console on standard error unless WithFallback says
// otherwise.
func New(opts ...Option) *Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.backends) == 0 {
		cfg.backends = []core.Backend{backends.NewConsoleStderr()}
	}
	if cfg.fallback == nil {
		cfg.fallback = backends.NewConsoleStderr()
	}
	states := make([]*backendState, len(cfg.backends))
	for i := range states {
		states[i] = &backendState{}
	}
	return &Logger{
		name:         cfg.name,
		minimumLevel: cfg.minimumLevel,
		levelSwitch:  cfg.levelSwitch,
		backends:     cfg.backends,
		states:       states,
		fallback:     cfg.fallback,
		clock:        cfg.clock,
		metadata:     cfg.metadata,
	}
}

// At returns a builder for a statement at level.
func (l *Logger) At(level core.Level) *Builder {
	return newBuilder(l, level)
}

// AtVerbose returns a builder for a Verbose statement.
func (l *Logger) AtVerbose() *Builder { return l.At(core.VerboseLevel) }

// AtDebug returns a builder for a Debug statement.
func (l *Logger) AtDebug() *Builder { return l.At(core.DebugLevel) }

// AtInfo returns a builder for an Information statement.
func (l *Logger) AtInfo() *Builder { return l.At(core.InformationLevel) }

// AtWarning returns a builder for a Warning statement.
func (l *Logger) AtWarning() *Builder { return l.At(core.WarningLevel) }

// AtError returns a builder for an Error statement.
func (l *Logger) AtError() *Builder { return l.At(core.ErrorLevel) }

// AtFatal returns a builder for a Fatal statement. Fatal is a level, not an
// action: the logger does not exit the process.
func (l *Logger) AtFatal() *Builder { return l.At(core.FatalLevel) }

// IsEnabled reports whether records at level pass the logger's minimum.
// Scope forcing is not considered; for that, ask the builder after
// attaching a context.
func (l *Logger) IsEnabled(level core.Level) bool {
	return l.levelEnabled(level)
}

func (l *Logger) levelEnabled(level core.Level) bool {
	if l.levelSwitch != nil {
		return l.levelSwitch.IsEnabled(level)
	}
	return level >= l.minimumLevel
}

// MinimumLevel returns the current minimum level, following the level
// switch when one is installed.
func (l *Logger) MinimumLevel() core.Level {
	if l.levelSwitch != nil {
		return l.levelSwitch.Level()
	}
	return l.minimumLevel
}

// Name returns the logger's configured name, or "" when records derive
// their name from the log site's package.
func (l *Logger) Name() string { return l.name }

// WithName returns a logger identical to l whose records carry name. Level
// maps in scopes match against this name.
func (l *Logger) WithName(name string) *Logger {
	out := *l
	out.name = name
	return &out
}

// With returns a logger whose records carry value under key, ahead of any
// scope and statement metadata. Nil keys are ignored.
func (l *Logger) With(key core.MetadataKey, value any) *Logger {
	if key == nil {
		selflog.Printf("[logger] With(nil) ignored")
		return l
	}
	out := *l
	out.metadata = l.metadata.With(key, value)
	return &out
}

func (l *Logger) now() time.Time {
	if l.clock != nil {
		return l.clock()
	}
	return time.Now()
}

// Close closes every backend once, then the fallback. Derived loggers share
// backends with their parent, so Close belongs to whoever built the root
// logger.
func (l *Logger) Close() error {
	var errs []error
	for _, backend := range l.backends {
		if err := backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if l.fallback != nil {
		if err := l.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Logger) dispatch(record *core.Record) {
	depth := reentry.Enter()
	defer reentry.Exit()
	if depth > reentry.MaxDepth {
		// A backend is logging through the facade from inside a dispatch.
		// The record still comes out, but through the fallback only, so
		// the cycle cannot deepen further.
		if selflog.IsEnabled() {
			selflog.Printf("[logger] recursion limit reached, rerouting record from %s to the fallback", record.Site)
		}
		reroute := *record
		reroute.Metadata = core.WithValue(record.Metadata, core.KeyRecursionDepth, depth)
		l.publishFallback(&reroute)
		return
	}
	for i, backend := range l.backends {
		l.emit(backend, l.states[i], record)
	}
}

// emit shields the caller from one backend: an error return or a panic,
// including panics thrown by argument formatting inside the backend, is
// reported and rerouted without disturbing the other backends.
func (l *Logger) emit(backend core.Backend, state *backendState, record *core.Record) {
	defer func() {
		if r := recover(); r != nil {
			l.backendPanicked(backend, state, record, r)
		}
	}()
	if err := backend.Log(record); err != nil {
		l.backendFailed(backend, state, record, err)
	}
}

// backendFailed handles an error return. The record itself is intact, so
// the fallback receives it unchanged.
func (l *Logger) backendFailed(backend core.Backend, state *backendState, record *core.Record, err error) {
	l.warnOnce(backend, state, err)
	l.publishFallback(record)
}

// backendPanicked handles a recovered panic. The record's own arguments may
// be what panicked, so the fallback receives a synthesized logging-error
// record naming the statement rather than the record itself.
func (l *Logger) backendPanicked(backend core.Backend, state *backendState, record *core.Record, reason any) {
	defer func() {
		// Describing the panic value can panic again.
		_ = recover()
	}()
	err := fmt.Errorf("panic: %v", reason)
	l.warnOnce(backend, state, err)
	l.publishFallback(&core.Record{
		Timestamp:  record.Timestamp,
		Level:      core.ErrorLevel,
		Site:       record.Site,
		LoggerName: record.LoggerName,
		Format:     "logging error while emitting %q",
		Args:       []any{record.Format},
		Metadata:   core.WithValue(core.Metadata{}, core.KeyCause, err),
	})
}

func (l *Logger) warnOnce(backend core.Backend, state *backendState, err error) {
	if state.warned.CompareAndSwap(false, true) {
		selflog.Printf("[logger] backend %T failed: %v", backend, err)
	}
}

func (l *Logger) publishFallback(record *core.Record) {
	fallback := l.fallback
	if fallback == nil {
		return
	}
	defer func() {
		// A failing fallback has nowhere left to report to.
		_ = recover()
	}()
	_ = fallback.Log(record)
}
