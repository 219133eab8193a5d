package flog

import (
	"runtime"
	"strings"
)

// StackSize selects how much of the goroutine stack WithStackTrace captures.
// Deep services can overflow the smaller sizes; the trace is then truncated,
// not dropped.
type StackSize int

const (
	// StackSizeSmall captures the innermost frames. Enough to see where a
	// statement was reached from in most code.
	StackSizeSmall StackSize = iota

	// StackSizeMedium captures a mid-sized trace.
	StackSizeMedium

	// StackSizeLarge captures a large trace.
	StackSizeLarge

	// StackSizeFull captures as much of the stack as the runtime returns.
	StackSizeFull
)

func (s StackSize) bufBytes() int {
	switch s {
	case StackSizeSmall:
		return 4 << 10
	case StackSizeMedium:
		return 16 << 10
	case StackSizeLarge:
		return 64 << 10
	default:
		return 256 << 10
	}
}

// captureStack formats the calling goroutine's stack, dropping the runtime
// header and the facade's own dispatch frames so the trace starts at the
// log statement.
func captureStack(size StackSize) string {
	buf := make([]byte, size.bufBytes())
	trace := string(buf[:runtime.Stack(buf, false)])

	lines := strings.Split(trace, "\n")
	if len(lines) == 0 {
		return trace
	}
	// lines[0] is "goroutine N [running]:", then frames come in pairs of
	// a function line and an indented location line.
	i := 1
	for i+1 < len(lines) && isFacadeFrame(lines[i]) {
		i += 2
	}
	return strings.Join(lines[i:], "\n")
}

func isFacadeFrame(function string) bool {
	return strings.Contains(function, "flog.captureStack") ||
		strings.Contains(function, "flog.(*Builder).") ||
		strings.Contains(function, "flog.(*Logger).")
}
