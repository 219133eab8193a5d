package flog

import (
	"golang.org/x/time/rate"

	"github.com/tcallahan/flog/core"
)

// Token-bucket rate limiting: a site with PerSecond(n) logs at a sustained
// rate of n records per second with bursts up to n. Unlike AtMostEvery this
// tolerates short bursts after idle periods instead of spacing every pair of
// records.
var perSecondStates = NewLogSiteMap[perSecondState]()

type perSecondState struct {
	limiter *rate.Limiter
}

func checkLogPerSecond(md core.Metadata, key core.LogSiteKey) *RateLimitStatus {
	n, ok := core.Get(md, core.KeyLogPerSecond)
	if !ok {
		return nil
	}
	if n <= 0 {
		return Allow
	}
	// The rate at first use seeds the bucket; later changes at the same
	// site are ignored.
	state := perSecondStates.GetOrCreate(key, func() *perSecondState {
		return &perSecondState{limiter: rate.NewLimiter(rate.Limit(n), n)}
	})
	if state.limiter.Allow() {
		return Allow
	}
	return Disallow
}
