package backends

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/tcallahan/flog/core"
)

const fileBufferSize = 32 * 1024

// File appends text records to a log file. A sidecar lock file guards
// against two processes appending to the same path; writes are buffered
// and flushed on Error and above so failures reach disk promptly.
type File struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
	lock *flock.Flock
	buf  []byte
	open bool
}

// NewFile opens path for appending, creating parent directories as
// needed. It fails when another process holds the lock for the path.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log directory for %s", path)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", lock.Path())
	}
	if !locked {
		return nil, errors.Errorf("log file %s is locked by another process", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, errors.Wrapf(err, "open log file %s", path)
	}

	return &File{
		path: path,
		file: file,
		w:    bufio.NewWriterSize(file, fileBufferSize),
		lock: lock,
		open: true,
	}, nil
}

// Log appends the record as a text line.
func (f *File) Log(record *core.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return errors.Errorf("log file %s is closed", f.path)
	}

	f.buf = AppendText(f.buf[:0], record)
	if _, err := f.w.Write(f.buf); err != nil {
		return errors.Wrapf(err, "write to %s", f.path)
	}
	if record.Level >= core.ErrorLevel {
		if err := f.w.Flush(); err != nil {
			return errors.Wrapf(err, "flush %s", f.path)
		}
	}
	return nil
}

// Flush forces buffered records to the file.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return nil
	}
	return f.w.Flush()
}

// Close flushes, syncs and closes the file, then releases the lock.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return nil
	}
	f.open = false

	var first error
	if err := f.w.Flush(); err != nil {
		first = errors.Wrapf(err, "flush %s", f.path)
	}
	if err := f.file.Sync(); err != nil && first == nil {
		first = errors.Wrapf(err, "sync %s", f.path)
	}
	if err := f.file.Close(); err != nil && first == nil {
		first = errors.Wrapf(err, "close %s", f.path)
	}
	if err := f.lock.Unlock(); err != nil && first == nil {
		first = errors.Wrapf(err, "unlock %s", f.lock.Path())
	}
	return first
}
