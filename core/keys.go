package core

import "time"

// Well-known metadata keys understood by the dispatch pipeline and the
// bundled backends. Rate limiting keys are normally set through the fluent
// builder rather than directly.
var (
	// KeyLogEveryN activates count-based rate limiting: the site logs on
	// the 1st, N+1st, 2N+1st invocation and so on.
	KeyLogEveryN = NewKey[uint64]("log_every_n")

	// KeyLogSampleEveryN activates random sampling: each invocation logs
	// with probability 1/N.
	KeyLogSampleEveryN = NewKey[uint64]("log_sample_every_n")

	// KeyLogAtMostEvery activates duration-based rate limiting: the site
	// logs at most once per period.
	KeyLogAtMostEvery = NewKey[time.Duration]("log_at_most_every")

	// KeyLogPerSecond activates token-bucket rate limiting at N records
	// per second.
	KeyLogPerSecond = NewKey[int]("log_per_second")

	// KeyCause holds the error attached with WithCause.
	KeyCause = NewKey[error]("cause")

	// KeyStackTrace holds a formatted stack trace of the log statement.
	KeyStackTrace = NewKey[string]("stack_trace")

	// KeyWasForced marks records that a scope's level override forced
	// past level checks and rate limiting.
	KeyWasForced = NewKey[bool]("forced")

	// KeySkippedCount reports how many records rate limiting suppressed
	// at the site since it last logged.
	KeySkippedCount = NewKey[int64]("skipped")

	// KeyRecursionDepth marks records rerouted to the fallback backend
	// because logging recursed past the allowed dispatch depth, and
	// reports the depth reached.
	KeyRecursionDepth = NewKey[int]("recursion_depth")
)
