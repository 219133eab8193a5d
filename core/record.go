package core

import (
	"fmt"
	"time"
)

// Record is a single log entry handed to backends after level checks and
// rate limiting have passed. Backends must not mutate a record; the same
// record may be shared by several backends concurrently.
type Record struct {
	// Timestamp is when the log statement executed.
	Timestamp time.Time

	// Level is the record's severity.
	Level Level

	// Site is the resolved source location of the statement. May be the
	// zero site when resolution failed or was disabled.
	Site LogSite

	// LoggerName is the logger's configured name, or the site's package
	// path when no name was configured.
	LoggerName string

	// Format is the printf-style format string, or the literal message
	// when Args is empty.
	Format string

	// Args are the format arguments, nil for literal messages.
	Args []any

	// Metadata holds the merged metadata of the record: logger values
	// first, then scope values outermost first, then per-statement values.
	Metadata Metadata

	// Tags holds the merged tags of the record in the same outer-to-inner
	// order.
	Tags Tags
}

// Message returns the formatted message. Formatting happens on each call;
// backends that need the message more than once should keep the result.
func (r *Record) Message() string {
	if len(r.Args) == 0 {
		return r.Format
	}
	return fmt.Sprintf(r.Format, r.Args...)
}

// Cause returns the error attached to the record, if any.
func (r *Record) Cause() error {
	cause, ok := Get(r.Metadata, KeyCause)
	if !ok {
		return nil
	}
	return cause
}

// Forced reports whether the record bypassed level checks and rate limiting
// because a scope forced its level.
func (r *Record) Forced() bool {
	forced, _ := Get(r.Metadata, KeyWasForced)
	return forced
}

// Skipped returns how many records were suppressed at this record's site by
// rate limiting since the site last logged.
func (r *Record) Skipped() int64 {
	skipped, _ := Get(r.Metadata, KeySkippedCount)
	return skipped
}
