package backends

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tcallahan/flog/core"
)

// Zap forwards records to a zap logger. The zap core keeps its own level
// filtering, encoders and output routing.
type Zap struct {
	logger *zap.Logger
}

// NewZap creates a backend delivering to logger.
func NewZap(logger *zap.Logger) *Zap {
	return &Zap{logger: logger}
}

// Log converts the record to a zap entry and writes it through the
// logger's core.
func (z *Zap) Log(record *core.Record) error {
	ce := z.logger.Check(zapLevel(record.Level), record.Message())
	if ce == nil {
		return nil
	}
	ce.Time = record.Timestamp
	if record.LoggerName != "" {
		ce.LoggerName = record.LoggerName
	}
	if record.Site.Valid() {
		ce.Caller = zapcore.NewEntryCaller(0, record.Site.File, record.Site.Line, true)
		ce.Caller.Function = record.Site.Function
	}
	if stack, ok := core.Get(record.Metadata, core.KeyStackTrace); ok {
		ce.Stack = stack
	}

	fields := make([]zap.Field, 0, record.Tags.Len()+record.Metadata.Len()+2)
	record.Tags.Each(func(tag core.Tag) {
		if tag.Value == nil {
			fields = append(fields, zap.Bool(tag.Name, true))
			return
		}
		fields = append(fields, zap.Any(tag.Name, tag.Value))
	})
	record.Metadata.EachEffective(func(key core.MetadataKey, value any) {
		switch key {
		case core.MetadataKey(core.KeyCause), core.MetadataKey(core.KeyStackTrace):
			return
		}
		fields = append(fields, zap.Any(key.Label(), value))
	})
	if cause := record.Cause(); cause != nil {
		fields = append(fields, zap.Error(cause))
	}

	ce.Write(fields...)
	return nil
}

// Close flushes buffered entries. Sync errors on stderr sinks are common
// on some platforms and are returned as-is for the caller to judge.
func (z *Zap) Close() error {
	return z.logger.Sync()
}

// Fatal maps to zap's error level rather than its fatal level, which
// would exit the process on write.
func zapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.VerboseLevel, core.DebugLevel:
		return zapcore.DebugLevel
	case core.InformationLevel:
		return zapcore.InfoLevel
	case core.WarningLevel:
		return zapcore.WarnLevel
	case core.ErrorLevel, core.FatalLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
