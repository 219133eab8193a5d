package flog

import (
	"math/rand"

	"github.com/tcallahan/flog/core"
)

// Random sampling: a site with SampleEvery(n) logs each invocation with
// probability 1/n. Sampling keeps no per-site state and every check rolls
// independently, so bursts are thinned without the strict periodicity of
// Every.
func checkLogSampleEveryN(md core.Metadata, key core.LogSiteKey) *RateLimitStatus {
	n, ok := core.Get(md, core.KeyLogSampleEveryN)
	if !ok {
		return nil
	}
	if n <= 1 {
		return Allow
	}
	if rand.Uint64()%n == 0 {
		return Allow
	}
	return Disallow
}
