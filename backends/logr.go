package backends

import (
	"github.com/go-logr/logr"

	"github.com/tcallahan/flog/core"
)

// Logr forwards records to a logr.Logger, for integration with
// controller-runtime style components.
type Logr struct {
	logger logr.Logger
}

// NewLogr creates a backend delivering to logger.
func NewLogr(logger logr.Logger) *Logr {
	return &Logr{logger: logger}
}

// Log translates the record for the logr sink. Error and Fatal records
// use the sink's error path with the attached cause; lower levels map to
// verbosity 0 through 2.
func (l *Logr) Log(record *core.Record) error {
	logger := l.logger
	if record.LoggerName != "" {
		logger = logger.WithName(record.LoggerName)
	}

	kv := make([]any, 0, 2*(record.Tags.Len()+record.Metadata.Len())+4)
	if record.Site.Valid() {
		kv = append(kv, "site", record.Site.String())
	}
	record.Tags.Each(func(tag core.Tag) {
		if tag.Value == nil {
			kv = append(kv, tag.Name, true)
			return
		}
		kv = append(kv, tag.Name, tag.Value)
	})
	record.Metadata.EachEffective(func(key core.MetadataKey, value any) {
		if key == core.MetadataKey(core.KeyCause) {
			return
		}
		kv = append(kv, key.Label(), value)
	})

	if record.Level >= core.ErrorLevel {
		logger.Error(record.Cause(), record.Message(), kv...)
		return nil
	}
	if record.Level == core.WarningLevel {
		kv = append(kv, "warning", true)
	}
	logger.V(logrVerbosity(record.Level)).Info(record.Message(), kv...)
	return nil
}

// Close does nothing; the sink is owned by the caller.
func (l *Logr) Close() error { return nil }

func logrVerbosity(level core.Level) int {
	switch level {
	case core.VerboseLevel:
		return 2
	case core.DebugLevel:
		return 1
	default:
		return 0
	}
}
