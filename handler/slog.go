// Package handler bridges foreign logging APIs onto a flog logger, so code
// written against log/slog or logr flows through the same backends, level
// checks and scopes as native statements.
package handler

import (
	"context"
	"log/slog"

	"github.com/tcallahan/flog"
	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/internal/callers"
)

// SlogHandler implements slog.Handler on top of a flog logger.
type SlogHandler struct {
	logger *flog.Logger
	attrs  []slog.Attr
	prefix string
}

var _ slog.Handler = (*SlogHandler)(nil)

// NewSlog creates an slog handler delivering to logger:
//
//	log := slog.New(handler.NewSlog(logger))
func NewSlog(logger *flog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled consults the flog logger's level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsEnabled(levelFromSlog(level))
}

// Handle converts the slog record into a flog statement. Attributes become
// tags, except error values, which become the statement's cause. The source
// location is taken from the record's PC, so rate limiter state keyed by
// site follows the original slog call site.
func (h *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	builder := h.logger.At(levelFromSlog(record.Level)).
		WithContext(ctx).
		WithSite(callers.FromPC(record.PC))

	causeSet := false
	addAttr := func(attr slog.Attr, prefix string) {
		if attr.Key == "" {
			return
		}
		value := attr.Value.Resolve().Any()
		if err, ok := value.(error); ok && !causeSet {
			causeSet = true
			builder = builder.WithCause(err)
			return
		}
		builder = builder.WithTag(core.Tag{Name: prefix + attr.Key, Value: value})
	}

	for _, attr := range h.attrs {
		// Pre-attached attrs carry their prefix from WithAttrs.
		addAttr(attr, "")
	}
	record.Attrs(func(attr slog.Attr) bool {
		addAttr(attr, h.prefix)
		return true
	})

	builder.Log(record.Message)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record. The current
// group prefix is applied now, so later WithGroup calls do not requalify
// them.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	out := *h
	out.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(out.attrs, h.attrs)
	for _, attr := range attrs {
		if attr.Key == "" {
			continue
		}
		out.attrs = append(out.attrs, slog.Attr{Key: h.prefix + attr.Key, Value: attr.Value})
	}
	return &out
}

// WithGroup returns a handler qualifying subsequent attribute keys with
// name, joined by dots.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}

func levelFromSlog(level slog.Level) core.Level {
	switch {
	case level < slog.LevelDebug:
		return core.VerboseLevel
	case level < slog.LevelInfo:
		return core.DebugLevel
	case level < slog.LevelWarn:
		return core.InformationLevel
	case level < slog.LevelError:
		return core.WarningLevel
	case level < slog.LevelError+4:
		return core.ErrorLevel
	default:
		return core.FatalLevel
	}
}
