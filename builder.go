package flog

import (
	"context"
	"sync"
	"time"

	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/internal/callers"
	"github.com/tcallahan/flog/scopes"
	"github.com/tcallahan/flog/selflog"
)

// Builder is the fluent per-statement API returned by Logger.At and friends.
// A builder accumulates rate limits, metadata and tags for one statement and
// is consumed by its terminal Log call:
//
//	logger.AtWarning().
//		Every(100).
//		WithCause(err).
//		Log("checksum mismatch on %s", path)
//
// Builders are pooled; using one after Log returns is a bug. They are cheap
// enough to build on every call, including calls below the minimum level.
type Builder struct {
	logger     *Logger
	level      core.Level
	md         core.Metadata
	tags       core.Tags
	ctx        context.Context
	site       core.LogSite
	siteSet    bool
	qualifiers []any
	perScope   bool
	stack      StackSize
	stackSet   bool
	skip       int
}

var builderPool = sync.Pool{New: func() any { return new(Builder) }}

func newBuilder(l *Logger, level core.Level) *Builder {
	b := builderPool.Get().(*Builder)
	qualifiers := b.qualifiers[:0]
	*b = Builder{logger: l, level: level, qualifiers: qualifiers}
	return b
}

func releaseBuilder(b *Builder) {
	b.logger = nil
	b.ctx = nil
	b.md = core.Metadata{}
	b.tags = core.Tags{}
	for i := range b.qualifiers {
		b.qualifiers[i] = nil
	}
	b.qualifiers = b.qualifiers[:0]
	builderPool.Put(b)
}

// Every limits the statement to its 1st, n+1st, 2n+1st invocation and so
// on. Counting is per call site; suppressed invocations are reported on the
// next emitted record. Values below 1 are ignored.
func (b *Builder) Every(n int) *Builder {
	if n < 1 {
		selflog.Printf("[builder] Every(%d) ignored, n must be at least 1", n)
		return b
	}
	b.md = core.WithValue(b.md, core.KeyLogEveryN, uint64(n))
	return b
}

// SampleEvery logs each invocation with probability 1/n. Unlike Every the
// choice is random, which avoids lockstep artifacts when many sites log in
// the same loop. Values below 1 are ignored.
func (b *Builder) SampleEvery(n int) *Builder {
	if n < 1 {
		selflog.Printf("[builder] SampleEvery(%d) ignored, n must be at least 1", n)
		return b
	}
	b.md = core.WithValue(b.md, core.KeyLogSampleEveryN, uint64(n))
	return b
}

// AtMostEvery limits the statement to one record per period, measured from
// the last record actually emitted. Non-positive periods are ignored.
func (b *Builder) AtMostEvery(period time.Duration) *Builder {
	if period <= 0 {
		selflog.Printf("[builder] AtMostEvery(%v) ignored, period must be positive", period)
		return b
	}
	b.md = core.WithValue(b.md, core.KeyLogAtMostEvery, period)
	return b
}

// PerSecond limits the statement to a sustained n records per second with
// bursts up to n, using a token bucket. Values below 1 are ignored.
func (b *Builder) PerSecond(n int) *Builder {
	if n < 1 {
		selflog.Printf("[builder] PerSecond(%d) ignored, n must be at least 1", n)
		return b
	}
	b.md = core.WithValue(b.md, core.KeyLogPerSecond, n)
	return b
}

// Per gives the statement independent rate limiter state for each distinct
// qualifier, so for example each user or shard is limited separately:
//
//	logger.AtInfo().Every(100).Per(userID).Log("request from %s", userID)
//
// The qualifier must be comparable. Nil qualifiers are ignored.
func (b *Builder) Per(qualifier any) *Builder {
	if qualifier == nil {
		selflog.Printf("[builder] Per(nil) ignored")
		return b
	}
	b.qualifiers = append(b.qualifiers, qualifier)
	return b
}

// PerScope gives the statement independent rate limiter state for each
// installed scope on the statement's context. The state is released when
// the scope closes. Without a context, PerScope has no effect.
func (b *Builder) PerScope() *Builder {
	b.perScope = true
	return b
}

// WithCause attaches err to the record under core.KeyCause. A nil err
// leaves the statement unchanged.
func (b *Builder) WithCause(err error) *Builder {
	if err == nil {
		return b
	}
	b.md = core.WithValue(b.md, core.KeyCause, err)
	return b
}

// WithStackTrace attaches a stack trace of the log statement to the record
// under core.KeyStackTrace.
func (b *Builder) WithStackTrace(size StackSize) *Builder {
	b.stack = size
	b.stackSet = true
	return b
}

// With attaches a metadata value to the record. The value must have the
// key's value type. Nil keys are ignored.
func (b *Builder) With(key core.MetadataKey, value any) *Builder {
	if key == nil {
		selflog.Printf("[builder] With(nil) ignored")
		return b
	}
	b.md = b.md.With(key, value)
	return b
}

// WithTag attaches a tag to the record, behind any tags inherited from
// scopes on the statement's context.
func (b *Builder) WithTag(tag core.Tag) *Builder {
	b.tags = b.tags.With(tag)
	return b
}

// WithTags attaches several tags to the record.
func (b *Builder) WithTags(tags core.Tags) *Builder {
	b.tags = b.tags.Merge(tags)
	return b
}

// WithContext reads scopes from ctx: their tags and metadata are merged
// into the record, their level maps may force the statement, and PerScope
// binds limiter state to the innermost scope.
func (b *Builder) WithContext(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}

// WithSite injects a pre-resolved log site instead of resolving the caller,
// for wrappers that determine sites themselves. Injecting the zero site
// disables resolution; such statements share rate limiter state with every
// other unresolved site.
func (b *Builder) WithSite(site core.LogSite) *Builder {
	b.site = site
	b.siteSet = true
	return b
}

// AddCallerSkip makes site resolution skip n additional stack frames, for
// helpers that wrap the terminal Log call.
func (b *Builder) AddCallerSkip(n int) *Builder {
	if n > 0 {
		b.skip += n
	}
	return b
}

// IsEnabled reports whether the statement would be dispatched, considering
// the logger's level and forcing by scopes on the attached context. It does
// not consult rate limiters and does not consume the builder, so it can
// guard expensive argument construction.
func (b *Builder) IsEnabled() bool {
	logger := b.logger
	if logger == nil {
		return false
	}
	if logger.levelEnabled(b.level) {
		return true
	}
	if b.ctx == nil {
		return false
	}
	name := logger.name
	if name == "" {
		site := b.site
		if !b.siteSet {
			site = callers.Here(b.skip + 1)
		}
		name = site.LoggerName()
	}
	return scopes.ShouldForce(b.ctx, name, b.level)
}

// Log emits the record with a printf-style message, subject to the level
// checks and rate limits accumulated on the builder. Without arguments the
// format string is the literal message. Log consumes the builder.
func (b *Builder) Log(format string, args ...any) {
	b.log(format, args)
}

func (b *Builder) log(format string, args []any) {
	logger := b.logger
	if logger == nil {
		return
	}
	defer releaseBuilder(b)

	site := b.site
	if !b.siteSet {
		site = callers.Here(b.skip + 2)
	}
	name := logger.name
	if name == "" {
		name = site.LoggerName()
	}

	now := logger.now()

	forced := false
	if b.ctx != nil {
		forced = scopes.ShouldForce(b.ctx, name, b.level)
	}
	if !forced && !logger.levelEnabled(b.level) {
		return
	}

	md := logger.metadata
	var tags core.Tags
	if b.ctx != nil {
		md = core.Concat(md, scopes.MetadataFrom(b.ctx))
		tags = scopes.TagsFrom(b.ctx)
	}
	md = core.Concat(md, b.md)
	tags = tags.Merge(b.tags)

	key := core.LogSiteKey(site)
	if b.perScope && b.ctx != nil {
		if scope, ok := scopes.ScopeFrom(b.ctx); ok {
			key = core.SpecializeKey(key, scope)
		}
	}
	for _, qualifier := range b.qualifiers {
		key = core.SpecializeKey(key, qualifier)
	}

	if forced {
		// Forced records bypass rate limiting without advancing it.
		md = core.WithValue(md, core.KeyWasForced, true)
	} else {
		status := checkRateLimits(md, key, now)
		if status == Disallow {
			recordSkip(key)
			return
		}
		if status != nil {
			status.Reset()
			if skipped := takeSkipped(key); skipped > 0 {
				md = core.WithValue(md, core.KeySkippedCount, skipped)
			}
		}
	}

	if b.stackSet {
		md = core.WithValue(md, core.KeyStackTrace, captureStack(b.stack))
	}

	logger.dispatch(&core.Record{
		Timestamp:  now,
		Level:      b.level,
		Site:       site,
		LoggerName: name,
		Format:     format,
		Args:       args,
		Metadata:   md,
		Tags:       tags,
	})
}
