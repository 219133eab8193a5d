package backends

import (
	"context"
	"log/slog"

	"github.com/tcallahan/flog/core"
)

// Slog forwards records to a standard library slog handler, so existing
// slog-based pipelines can receive flog output.
type Slog struct {
	handler slog.Handler
}

// NewSlog creates a backend delivering to the handler of logger.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{handler: logger.Handler()}
}

// NewSlogHandler creates a backend delivering directly to handler.
func NewSlogHandler(handler slog.Handler) *Slog {
	return &Slog{handler: handler}
}

// Log converts the record to an slog.Record and hands it to the handler.
func (s *Slog) Log(record *core.Record) error {
	level := slogLevel(record.Level)
	if !s.handler.Enabled(context.Background(), level) {
		return nil
	}

	r := slog.NewRecord(record.Timestamp, level, record.Message(), 0)
	if record.LoggerName != "" {
		r.AddAttrs(slog.String("logger", record.LoggerName))
	}
	if record.Site.Valid() {
		r.AddAttrs(slog.String("site", record.Site.String()))
	}
	record.Tags.Each(func(tag core.Tag) {
		if tag.Value == nil {
			r.AddAttrs(slog.Bool(tag.Name, true))
			return
		}
		r.AddAttrs(slog.Any(tag.Name, tag.Value))
	})
	record.Metadata.EachEffective(func(key core.MetadataKey, value any) {
		switch key {
		case core.MetadataKey(core.KeyWasForced), core.MetadataKey(core.KeySkippedCount), core.MetadataKey(core.KeyStackTrace):
			return
		}
		r.AddAttrs(slog.Any(key.Label(), value))
	})
	if record.Forced() {
		r.AddAttrs(slog.Bool("forced", true))
	}
	if skipped := record.Skipped(); skipped > 0 {
		r.AddAttrs(slog.Int64("skipped", skipped))
	}
	return s.handler.Handle(context.Background(), r)
}

// Close does nothing; the handler is owned by the caller.
func (s *Slog) Close() error { return nil }

func slogLevel(level core.Level) slog.Level {
	switch level {
	case core.VerboseLevel:
		return slog.LevelDebug - 4
	case core.DebugLevel:
		return slog.LevelDebug
	case core.InformationLevel:
		return slog.LevelInfo
	case core.WarningLevel:
		return slog.LevelWarn
	case core.ErrorLevel:
		return slog.LevelError
	case core.FatalLevel:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}
