// Package flog is a fluent logging facade with per-call-site rate limiting.
//
// Every statement starts at a level and reads as a chain; the terminal Log
// call checks levels and rate limits, then hands the record to the
// configured backends:
//
//	logger := flog.New(flog.WithConsole())
//
//	logger.AtInfo().Log("service started on %s", addr)
//	logger.AtWarning().Every(100).Log("slow response from %s", peer)
//	logger.AtError().AtMostEvery(30*time.Second).WithCause(err).Log("flush failed")
//
// Rate limiter state lives per call site: two statements never share
// counters, and a statement rate-limits independently per qualifier with
// Per. Records suppressed by a limiter are counted and reported on the next
// record the site emits.
//
// Scopes carry tags, metadata and level overrides on a context.Context:
//
//	ctx, done := scopes.NewContext(ctx).
//		WithTag(core.StringTag("task", "backfill")).
//		Install()
//	defer done()
//
//	logger.AtInfo().WithContext(ctx).Log("row batch committed")
//
// Backends adapt records to real sinks: console and files, slog, zap and
// logr loggers, NATS subjects, or an in-memory buffer for tests. See the
// backends package.
//
// The facade never panics the application and never reports its own
// failures to the caller; enable the selflog package during debugging to
// see suppressed problems.
package flog
