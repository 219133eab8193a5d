package flog

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/tcallahan/flog/core"
)

// Duration-based rate limiting: a site with AtMostEvery(period) logs when at
// least period has elapsed since the last committed emission. The window is
// measured from the previous log, not aligned to wall-clock boundaries.
var atMostEveryStates = NewLogSiteMap[durationState]()

func checkLogAtMostEvery(md core.Metadata, key core.LogSiteKey, now time.Time) *RateLimitStatus {
	period, ok := core.Get(md, core.KeyLogAtMostEvery)
	if !ok {
		return nil
	}
	if period <= 0 {
		return Allow
	}
	state := atMostEveryStates.GetOrCreate(key, newDurationState)
	return state.check(period, now.UnixNano())
}

// neverLogged marks a site with no committed emission yet, so the first
// invocation always logs.
const neverLogged = math.MinInt64

type durationState struct {
	lastNanos    atomic.Int64
	pendingNanos atomic.Int64
	status       *RateLimitStatus
}

func newDurationState() *durationState {
	s := &durationState{}
	s.lastNanos.Store(neverLogged)
	s.status = NewRateLimitStatus(func() {
		s.lastNanos.Store(s.pendingNanos.Load())
	})
	return s
}

func (s *durationState) check(period time.Duration, nowNanos int64) *RateLimitStatus {
	last := s.lastNanos.Load()
	if last != neverLogged && nowNanos-last < int64(period) {
		return Disallow
	}
	s.pendingNanos.Store(nowNanos)
	return s.status
}
