package flog

import (
	"sync/atomic"

	"github.com/tcallahan/flog/core"
)

// Per-site counters shared by all limiters at a site. Suppressed statements
// increment the skip count; the next emitted record drains it and reports
// the value under core.KeySkippedCount.
var statsBySite = NewLogSiteMap[siteStats]()

type siteStats struct {
	skipped atomic.Int64
}

func newSiteStats() *siteStats { return &siteStats{} }

func recordSkip(key core.LogSiteKey) {
	statsBySite.GetOrCreate(key, newSiteStats).skipped.Add(1)
}

func takeSkipped(key core.LogSiteKey) int64 {
	stats, ok := statsBySite.Get(key)
	if !ok {
		return 0
	}
	return stats.skipped.Swap(0)
}
