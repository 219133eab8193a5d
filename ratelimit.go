package flog

import (
	"time"

	"github.com/tcallahan/flog/core"
)

// RateLimitStatus is one rate limiter's answer to "may this statement log
// now". Limiters with internal state answer with a pending status: the
// decision does not advance counters or timestamps until Reset commits it
// after the record is actually emitted. Repeated checks without a Reset
// therefore keep returning the same status instance.
type RateLimitStatus struct {
	commit func()
}

// Allow is the status of an allowed decision with no pending state, used by
// limiters that need no commit step. Reset on it is a no-op.
var Allow = &RateLimitStatus{}

// Disallow is the status of a suppressed statement. It is absorbing when
// combined: one limiter saying no means no.
var Disallow = &RateLimitStatus{}

// NewRateLimitStatus returns an allowing status whose Reset runs commit.
// Limiters create one status per site and hand it out on every allowed
// check, so callers can compare statuses by identity.
func NewRateLimitStatus(commit func()) *RateLimitStatus {
	return &RateLimitStatus{commit: commit}
}

// Reset commits the pending decision. The dispatch pipeline calls it exactly
// once per emitted record, after the final combined status allowed it.
func (s *RateLimitStatus) Reset() {
	if s == nil || s.commit == nil {
		return
	}
	s.commit()
}

// Combine merges the outcomes of two limiters. A nil status means the
// limiter was inactive and acts as identity; Disallow absorbs everything
// else; two allowing statuses combine into one whose Reset commits both.
func Combine(a, b *RateLimitStatus) *RateLimitStatus {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a == Disallow || b == Disallow {
		return Disallow
	}
	if a == Allow {
		return b
	}
	if b == Allow {
		return a
	}
	return &RateLimitStatus{commit: func() {
		a.Reset()
		b.Reset()
	}}
}

// checkRateLimits runs every limiter the statement's metadata activates and
// combines their answers. A nil result means no limiter was active and the
// statement logs without a commit step.
func checkRateLimits(md core.Metadata, key core.LogSiteKey, now time.Time) *RateLimitStatus {
	var status *RateLimitStatus
	status = Combine(status, checkLogEveryN(md, key))
	status = Combine(status, checkLogSampleEveryN(md, key))
	status = Combine(status, checkLogAtMostEvery(md, key, now))
	status = Combine(status, checkLogPerSecond(md, key))
	return status
}
