// Package backends adapts log records to real destinations: console and
// file output, slog, zap and logr loggers, NATS subjects, and an in-memory
// buffer for tests. Wrappers compose backends: NewAsync makes any backend
// non-blocking, NewTee fans out, NewFailover reroutes failures.
package backends

import (
	"fmt"

	"github.com/tcallahan/flog/core"
)

// AppendText renders record in the bracketed text layout shared by the
// console and file backends, appending to buf:
//
//	[2026-01-29 15:04:05.000] [INF] github.com/acme/billing: started [env=prod] attempts=3 (skipped 17)
//
// The cause is quoted at the end of the line; a stack trace, if present,
// follows on its own lines.
func AppendText(buf []byte, record *core.Record) []byte {
	buf = append(buf, '[')
	buf = record.Timestamp.AppendFormat(buf, "2006-01-02 15:04:05.000")
	buf = append(buf, ']', ' ', '[')
	buf = append(buf, record.Level.Short()...)
	buf = append(buf, ']', ' ')

	if record.LoggerName != "" {
		buf = append(buf, record.LoggerName...)
		buf = append(buf, ':', ' ')
	}
	buf = append(buf, record.Message()...)

	if !record.Tags.Empty() {
		buf = append(buf, ' ')
		buf = append(buf, record.Tags.String()...)
	}

	record.Metadata.EachEffective(func(key core.MetadataKey, value any) {
		switch key {
		case core.MetadataKey(core.KeyCause),
			core.MetadataKey(core.KeyStackTrace),
			core.MetadataKey(core.KeyWasForced),
			core.MetadataKey(core.KeySkippedCount):
			return
		}
		buf = fmt.Appendf(buf, " %s=%v", key.Label(), value)
	})

	if record.Forced() {
		buf = append(buf, " (forced)"...)
	}
	if skipped := record.Skipped(); skipped > 0 {
		buf = fmt.Appendf(buf, " (skipped %d)", skipped)
	}
	if cause := record.Cause(); cause != nil {
		buf = fmt.Appendf(buf, " cause=%q", cause.Error())
	}

	buf = append(buf, '\n')

	if stack, ok := core.Get(record.Metadata, core.KeyStackTrace); ok && stack != "" {
		buf = append(buf, stack...)
		if stack[len(stack)-1] != '\n' {
			buf = append(buf, '\n')
		}
	}
	return buf
}
