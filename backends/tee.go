package backends

import (
	"errors"

	"github.com/tcallahan/flog/core"
)

// Tee fans each record out to every wrapped backend.
type Tee struct {
	backends []core.Backend
}

// NewTee creates a backend that duplicates records to all of targets.
func NewTee(targets ...core.Backend) *Tee {
	return &Tee{backends: targets}
}

// Log delivers the record to every target. All targets are attempted even
// when earlier ones fail; the errors are joined.
func (t *Tee) Log(record *core.Record) error {
	var errs []error
	for _, b := range t.backends {
		if err := b.Log(record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every target, joining any errors.
func (t *Tee) Close() error {
	var errs []error
	for _, b := range t.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
