package backends

import (
	"errors"
	"sync/atomic"

	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/selflog"
)

// Failover delivers each record to the first backend in its list that
// accepts it. Later backends only see records the earlier ones rejected.
type Failover struct {
	backends []core.Backend
	warned   atomic.Bool
}

// NewFailover creates a failover chain. The first target is the primary;
// the rest are tried in order when it returns an error.
func NewFailover(targets ...core.Backend) *Failover {
	return &Failover{backends: targets}
}

// Log tries each backend in order until one succeeds. The error of the
// last attempt is returned when all fail.
func (f *Failover) Log(record *core.Record) error {
	var last error
	for i, b := range f.backends {
		err := b.Log(record)
		if err == nil {
			if i > 0 && f.warned.CompareAndSwap(false, true) && selflog.IsEnabled() {
				selflog.Printf("[failover] primary backend failing, using fallback %d: %v", i, last)
			}
			if i == 0 {
				f.warned.Store(false)
			}
			return nil
		}
		last = err
	}
	return last
}

// Close closes every backend in the chain, joining any errors.
func (f *Failover) Close() error {
	var errs []error
	for _, b := range f.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
