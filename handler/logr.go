package handler

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/tcallahan/flog"
	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/internal/callers"
)

// LogrSink implements logr.LogSink on top of a flog logger. logr V-levels
// map to Information, Debug and Verbose; the error path logs at Error with
// the error as the statement's cause.
type LogrSink struct {
	logger    *flog.Logger
	tags      core.Tags
	callDepth int
}

var _ logr.LogSink = (*LogrSink)(nil)
var _ logr.CallDepthLogSink = (*LogrSink)(nil)

// NewLogr creates a logr logger delivering to logger.
func NewLogr(logger *flog.Logger) logr.Logger {
	return logr.New(NewLogrSink(logger))
}

// NewLogrSink creates the underlying sink, for callers assembling their
// own logr.Logger.
func NewLogrSink(logger *flog.Logger) *LogrSink {
	return &LogrSink{logger: logger}
}

// Init records logr's own call depth for site resolution.
func (s *LogrSink) Init(info logr.RuntimeInfo) {
	s.callDepth = info.CallDepth
}

// Enabled tests the V-level against the flog logger's level.
func (s *LogrSink) Enabled(level int) bool {
	return s.logger.IsEnabled(levelFromLogr(level))
}

// Info logs a non-error message.
func (s *LogrSink) Info(level int, msg string, keysAndValues ...any) {
	b := s.logger.At(levelFromLogr(level)).
		WithSite(callers.Here(s.callDepth + 1)).
		WithTags(s.tags)
	s.log(b, msg, keysAndValues)
}

// Error logs a message with err as the statement's cause.
func (s *LogrSink) Error(err error, msg string, keysAndValues ...any) {
	b := s.logger.AtError().
		WithSite(callers.Here(s.callDepth + 1)).
		WithTags(s.tags).
		WithCause(err)
	s.log(b, msg, keysAndValues)
}

func (s *LogrSink) log(b *flog.Builder, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		b = b.WithTag(core.Tag{Name: fmt.Sprint(keysAndValues[i]), Value: keysAndValues[i+1]})
	}
	if len(keysAndValues)%2 != 0 {
		b = b.WithTag(core.NameTag(fmt.Sprint(keysAndValues[len(keysAndValues)-1])))
	}
	b.Log(msg)
}

// WithValues returns a sink attaching the key/value pairs to every record.
func (s *LogrSink) WithValues(keysAndValues ...any) logr.LogSink {
	out := *s
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out.tags = out.tags.With(core.Tag{Name: fmt.Sprint(keysAndValues[i]), Value: keysAndValues[i+1]})
	}
	return &out
}

// WithName returns a sink whose records carry name, segments joined with
// dots.
func (s *LogrSink) WithName(name string) logr.LogSink {
	out := *s
	if existing := s.logger.Name(); existing != "" {
		name = existing + "." + name
	}
	out.logger = s.logger.WithName(name)
	return &out
}

// WithCallDepth returns a sink resolving sites depth frames further up, for
// wrappers around the logr logger.
func (s *LogrSink) WithCallDepth(depth int) logr.LogSink {
	out := *s
	out.callDepth += depth
	return &out
}

func levelFromLogr(level int) core.Level {
	switch level {
	case 0:
		return core.InformationLevel
	case 1:
		return core.DebugLevel
	default:
		return core.VerboseLevel
	}
}
