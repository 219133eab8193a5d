package flog

import (
	"sync/atomic"

	"github.com/tcallahan/flog/core"
)

// Count-based rate limiting: a site with Every(n) logs on its 1st, n+1st,
// 2n+1st invocation and so on. The invocation counter advances on every
// check; which invocation last logged only advances when Reset commits an
// emission, so an allowed-but-uncommitted decision stays allowed.
var everyNStates = NewLogSiteMap[countState]()

func checkLogEveryN(md core.Metadata, key core.LogSiteKey) *RateLimitStatus {
	n, ok := core.Get(md, core.KeyLogEveryN)
	if !ok {
		return nil
	}
	if n <= 1 {
		return Allow
	}
	state := everyNStates.GetOrCreate(key, func() *countState {
		return newCountState(int64(n))
	})
	return state.check(int64(n))
}

type countState struct {
	invocations atomic.Int64
	lastLogged  atomic.Int64
	pending     atomic.Int64
	status      *RateLimitStatus
}

// The period value at first use seeds the counter so invocation 1 always
// logs; a site whose n changes later keeps its original baseline.
func newCountState(n int64) *countState {
	s := &countState{}
	s.lastLogged.Store(1 - n)
	s.status = NewRateLimitStatus(func() {
		s.lastLogged.Store(s.pending.Load())
	})
	return s
}

func (s *countState) check(n int64) *RateLimitStatus {
	i := s.invocations.Add(1)
	if i-s.lastLogged.Load() < n {
		return Disallow
	}
	s.pending.Store(i)
	return s.status
}
