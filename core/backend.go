package core

// Backend receives completed log records and writes them somewhere.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Log writes the record. A non-nil error marks the backend as failed
	// for diagnostics, but never propagates to the logging caller.
	Log(record *Record) error

	// Close flushes buffered records and releases resources. A backend is
	// not used again after Close.
	Close() error
}

// BackendFunc adapts a plain function to the Backend interface with a no-op
// Close.
type BackendFunc func(record *Record) error

// Log calls f.
func (f BackendFunc) Log(record *Record) error { return f(record) }

// Close is a no-op.
func (BackendFunc) Close() error { return nil }
