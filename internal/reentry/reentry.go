// Package reentry tracks per-goroutine dispatch depth. A backend that logs
// through the facade while handling a record would otherwise recurse without
// bound; dispatch drops records past MaxDepth instead.
package reentry

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// MaxDepth is the dispatch depth above which further records on the same
// goroutine are dropped.
const MaxDepth = 100

// Depth counters keyed by goroutine id. A counter is only ever touched by
// its own goroutine, so the values need no further synchronization.
var depths sync.Map

// Enter records one more dispatch on the current goroutine and returns the
// resulting depth, starting at 1.
func Enter() int {
	v, _ := depths.LoadOrStore(goroutineID(), new(int))
	d := v.(*int)
	*d++
	return *d
}

// Exit unwinds one dispatch level, removing the counter at depth zero so
// finished goroutines leave nothing behind.
func Exit() {
	id := goroutineID()
	v, ok := depths.Load(id)
	if !ok {
		return
	}
	d := v.(*int)
	*d--
	if *d <= 0 {
		depths.Delete(id)
	}
}

var stackBufs = sync.Pool{
	New: func() any {
		b := make([]byte, 64)
		return &b
	},
}

// goroutineID parses the current goroutine's id from the runtime.Stack
// header line, "goroutine 123 [running]".
func goroutineID() uint64 {
	bp := stackBufs.Get().(*[]byte)
	defer stackBufs.Put(bp)

	b := (*bp)[:runtime.Stack(*bp, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
