package backends

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/selflog"
)

// OverflowStrategy controls what Async does when its buffer is full.
type OverflowStrategy int

const (
	// OverflowBlock blocks the caller until space is available.
	OverflowBlock OverflowStrategy = iota
	// OverflowDrop drops the new record.
	OverflowDrop
	// OverflowDropOldest drops the oldest buffered record to make room.
	OverflowDropOldest
)

// AsyncOptions configures an Async backend.
type AsyncOptions struct {
	// BufferSize is the channel capacity. Defaults to 1000.
	BufferSize int
	// OverflowStrategy selects behavior on a full buffer.
	OverflowStrategy OverflowStrategy
	// ShutdownTimeout bounds how long Close waits for the buffer to
	// drain. Defaults to 30 seconds.
	ShutdownTimeout time.Duration
	// OnError is called with errors from the wrapped backend. Optional.
	OnError func(error)
}

// Async wraps a backend and delivers records to it from a background
// goroutine, so that slow backends do not stall logging call sites.
type Async struct {
	inner   core.Backend
	opts    AsyncOptions
	ch      chan *core.Record
	done    chan struct{}
	wg      sync.WaitGroup
	closed  atomic.Bool
	dropped atomic.Int64
	emitted atomic.Int64
}

// NewAsync wraps inner with default options.
func NewAsync(inner core.Backend) *Async {
	return NewAsyncWithOptions(inner, AsyncOptions{})
}

// NewAsyncWithOptions wraps inner with explicit options.
func NewAsyncWithOptions(inner core.Backend, opts AsyncOptions) *Async {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	a := &Async{
		inner: inner,
		opts:  opts,
		ch:    make(chan *core.Record, opts.BufferSize),
		done:  make(chan struct{}),
	}
	a.wg.Add(1)
	go a.worker()
	return a
}

// Log enqueues the record for background delivery. With OverflowBlock it
// may block; with the drop strategies it never does.
func (a *Async) Log(record *core.Record) error {
	if a.closed.Load() {
		return fmt.Errorf("async backend is closed")
	}

	switch a.opts.OverflowStrategy {
	case OverflowBlock:
		select {
		case a.ch <- record:
		case <-a.done:
			return fmt.Errorf("async backend is closed")
		}
	case OverflowDrop:
		select {
		case a.ch <- record:
		default:
			a.recordDrop()
		}
	case OverflowDropOldest:
		for {
			select {
			case a.ch <- record:
				return nil
			default:
			}
			select {
			case <-a.ch:
				a.recordDrop()
			default:
			}
		}
	}
	return nil
}

// Dropped reports how many records were discarded due to a full buffer.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Emitted reports how many records the wrapped backend has received.
func (a *Async) Emitted() int64 { return a.emitted.Load() }

// Close stops accepting records, waits up to ShutdownTimeout for the
// buffer to drain, then closes the wrapped backend.
func (a *Async) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(a.done)

	finished := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(finished)
	}()

	var drainErr error
	select {
	case <-finished:
	case <-time.After(a.opts.ShutdownTimeout):
		drainErr = fmt.Errorf("async backend: shutdown timeout after %v with %d records buffered",
			a.opts.ShutdownTimeout, len(a.ch))
	}

	if err := a.inner.Close(); err != nil {
		if drainErr != nil {
			return drainErr
		}
		return err
	}
	return drainErr
}

func (a *Async) worker() {
	defer a.wg.Done()
	for {
		select {
		case record := <-a.ch:
			a.emit(record)
		case <-a.done:
			// Drain whatever is buffered, then exit.
			for {
				select {
				case record := <-a.ch:
					a.emit(record)
				default:
					return
				}
			}
		}
	}
}

func (a *Async) emit(record *core.Record) {
	a.emitted.Add(1)
	if err := a.inner.Log(record); err != nil {
		if a.opts.OnError != nil {
			a.opts.OnError(err)
		} else if selflog.IsEnabled() {
			selflog.Printf("[async] backend error: %v", err)
		}
	}
}

func (a *Async) recordDrop() {
	n := a.dropped.Add(1)
	if selflog.IsEnabled() && (n == 1 || n%1000 == 0) {
		selflog.Printf("[async] buffer full, dropped %d record(s)", n)
	}
}
