package backends

import (
	"io"
	"os"
	"sync"

	"github.com/tcallahan/flog/core"
)

// Console writes records as text lines to a writer, one record per line
// plus any stack trace. Writes are serialized, so an unsynchronized writer
// is fine.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	useColor bool
	buf      []byte
}

// NewConsole creates a console backend writing to w, without color.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// NewConsoleStderr creates a console backend on standard error, with level
// colors unless NO_COLOR is set or the terminal is dumb.
func NewConsoleStderr() *Console {
	c := NewConsole(os.Stderr)
	if os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb" {
		c.useColor = true
	}
	return c
}

// WithColor toggles ANSI level colors and returns the backend.
func (c *Console) WithColor(enabled bool) *Console {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.useColor = enabled
	return c
}

// Log writes the record.
func (c *Console) Log(record *core.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = c.buf[:0]
	if c.useColor {
		c.buf = append(c.buf, levelColor(record.Level)...)
	}
	c.buf = AppendText(c.buf, record)
	if c.useColor {
		// Reset before the trailing newline so the color does not bleed
		// into the next prompt line.
		c.buf = append(c.buf[:len(c.buf)-1], "\x1b[0m\n"...)
	}
	_, err := c.w.Write(c.buf)
	return err
}

// Close does nothing; the writer is owned by the caller.
func (c *Console) Close() error { return nil }

func levelColor(level core.Level) string {
	switch level {
	case core.VerboseLevel:
		return "\x1b[2m"
	case core.DebugLevel:
		return "\x1b[36m"
	case core.InformationLevel:
		return ""
	case core.WarningLevel:
		return "\x1b[33m"
	case core.ErrorLevel:
		return "\x1b[31m"
	case core.FatalLevel:
		return "\x1b[1;31m"
	default:
		return ""
	}
}
