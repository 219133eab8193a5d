// Package callers resolves the source location of log statements, caching
// results by program counter so repeated statements pay for symbolization
// once.
package callers

import (
	"os"
	"runtime"
	"strconv"

	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/internal/cache"
)

var sites = cache.NewLRU[uintptr, core.LogSite](siteCacheSize())

// Cache size can be overridden with the FLOG_SITE_CACHE env var.
func siteCacheSize() int {
	if size := os.Getenv("FLOG_SITE_CACHE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			return n
		}
	}
	return 10000
}

// Here resolves the log site skip frames above the caller. Skip 0 is the
// immediate caller of Here. Statements whose caller cannot be resolved get
// the invalid zero site.
func Here(skip int) core.LogSite {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return core.LogSite{}
	}
	pc := pcs[0]
	return sites.GetOrCreate(pc, func() core.LogSite { return resolve(pc) })
}

// FromPC resolves the log site for a program counter captured elsewhere,
// such as an slog record's PC. A zero pc yields the invalid site.
func FromPC(pc uintptr) core.LogSite {
	if pc == 0 {
		return core.LogSite{}
	}
	return sites.GetOrCreate(pc, func() core.LogSite { return resolve(pc) })
}

func resolve(pc uintptr) core.LogSite {
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.Function == "" {
		return core.LogSite{}
	}
	return core.LogSite{
		Function: frame.Function,
		File:     frame.File,
		Line:     frame.Line,
	}
}

// CacheStats exposes site cache counters for diagnostics.
func CacheStats() (hits, misses, evictions uint64) {
	return sites.Stats()
}
