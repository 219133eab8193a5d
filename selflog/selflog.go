// Package selflog provides internal diagnostic logging for flog itself.
//
// The facade never lets its own problems reach the application: backend
// failures, recovered panics and configuration mistakes are swallowed after
// being reported here. Enable selflog while debugging to see them:
//
//	selflog.Enable(os.Stderr)
//	defer selflog.Disable()
//
// Non-synchronized writers such as files should be wrapped with Sync. A
// callback can be installed instead of a writer with EnableFunc.
//
// Messages are single lines of the form:
//
//	2026-01-29T15:30:45Z [component] message
//
// Setting the FLOG_SELFLOG environment variable enables output on startup:
// "stderr", "stdout", or a file path to append to.
package selflog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// output is the installed destination. Exactly one of w and fn is set.
type output struct {
	w  io.Writer
	fn func(string)
}

var current atomic.Pointer[output]

// Enable activates self-logging to w. The writer must be safe for
// concurrent use or wrapped with Sync.
func Enable(w io.Writer) {
	if w == nil {
		return
	}
	current.Store(&output{w: w})
}

// EnableFunc activates self-logging through a callback, which receives each
// formatted line without a trailing newline.
func EnableFunc(fn func(string)) {
	if fn == nil {
		return
	}
	current.Store(&output{fn: fn})
}

// Disable deactivates self-logging.
func Disable() {
	current.Store(nil)
}

// IsEnabled reports whether self-logging is active. Callers building
// expensive messages should check it first:
//
//	if selflog.IsEnabled() {
//		selflog.Printf("[async] dropped %d records", n)
//	}
func IsEnabled() bool {
	return current.Load() != nil
}

// Printf reports an internal diagnostic. By convention the format starts
// with the originating component in square brackets, e.g. "[file] write
// failed: %v".
func Printf(format string, args ...any) {
	out := current.Load()
	if out == nil {
		return
	}
	line := time.Now().UTC().Format(time.RFC3339) + " " + fmt.Sprintf(format, args...)
	if out.w != nil {
		fmt.Fprintln(out.w, line)
		return
	}
	out.fn(line)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Sync wraps w so concurrent Printf calls cannot interleave writes.
func Sync(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

func init() {
	switch dest := os.Getenv("FLOG_SELFLOG"); dest {
	case "":
	case "stderr":
		Enable(os.Stderr)
	case "stdout":
		Enable(os.Stdout)
	default:
		if f, err := os.OpenFile(dest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			Enable(Sync(f))
		}
	}
}
