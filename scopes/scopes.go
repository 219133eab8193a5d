// Package scopes carries logging state on a context.Context: tags and
// metadata that every record inside the scope inherits, log level overrides,
// and a close handle that releases per-site state tied to the scope.
//
// A scope is built fluently and installed on a context:
//
//	ctx, done := scopes.NewContext(ctx).
//		WithTag(core.StringTag("task", "backfill")).
//		Install()
//	defer done()
//
// Installing returns a derived context, so the caller's own context is
// never mutated; dropping the derived context restores the previous state
// exactly. Scopes nest: values from outer scopes come first, inner scopes
// override single-valued metadata and add tags behind outer ones. The
// returned close function must run on the same call path that installed the
// scope, innermost first; closing scopes out of order leaves the interleaved
// scopes' per-site state untouched until their own close runs.
package scopes

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tcallahan/flog/core"
)

// CloseFunc closes an installed scope. It is idempotent and safe to call
// from a defer.
type CloseFunc func()

// Scope is the lifecycle handle of one installed scope. Rate limiter state
// specialized by the scope registers removal hooks here so that closing the
// scope frees it.
type Scope struct {
	mu     sync.Mutex
	closed atomic.Bool
	hooks  []func()
}

func newScope() *Scope { return &Scope{} }

// OnClose registers fn to run when the scope closes. If the scope is
// already closed, fn runs immediately on the calling goroutine.
func (s *Scope) OnClose(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		fn()
		return
	}
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// Closed reports whether the scope has been closed.
func (s *Scope) Closed() bool { return s.closed.Load() }

func (s *Scope) close() {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return
	}
	s.closed.Store(true)
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

var _ core.ScopeHandle = (*Scope)(nil)

// frame is one installed scope's state. Frames are immutable after Install
// and chain to the enclosing scope's frame.
type frame struct {
	parent   *frame
	tags     core.Tags
	metadata core.Metadata
	levels   *LogLevelMap
	scope    *Scope
}

type ctxKey struct{}

func fromContext(ctx context.Context) *frame {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(ctxKey{}).(*frame)
	return f
}

// Builder accumulates scope state before it is installed on a context.
type Builder struct {
	ctx      context.Context
	tags     core.Tags
	metadata core.Metadata
	levels   *LogLevelMap
}

// NewContext starts a scope builder for ctx. A nil ctx is treated as
// context.Background.
func NewContext(ctx context.Context) *Builder {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Builder{ctx: ctx}
}

// WithTags adds tags to the scope.
func (b *Builder) WithTags(tags core.Tags) *Builder {
	b.tags = b.tags.Merge(tags)
	return b
}

// WithTag adds a single tag to the scope.
func (b *Builder) WithTag(tag core.Tag) *Builder {
	b.tags = b.tags.With(tag)
	return b
}

// WithMetadata adds metadata entries to the scope. Entries added later
// override earlier single-valued entries, as do inner scopes over outer
// ones.
func (b *Builder) WithMetadata(md core.Metadata) *Builder {
	b.metadata = core.Concat(b.metadata, md)
	return b
}

// WithLogLevelMap installs level overrides for the scope. Loggers matching
// the map log at the mapped level even below the backend minimum, marked as
// forced. The innermost scope whose map matches a logger decides for it.
func (b *Builder) WithLogLevelMap(m *LogLevelMap) *Builder {
	b.levels = m
	return b
}

// Install returns a context carrying the scope and a close function that
// ends it. The close function releases rate limiter state keyed to the
// scope; the context values themselves live only in the derived context.
func (b *Builder) Install() (context.Context, CloseFunc) {
	f := &frame{
		parent:   fromContext(b.ctx),
		tags:     b.tags,
		metadata: b.metadata,
		levels:   b.levels,
		scope:    newScope(),
	}
	ctx := context.WithValue(b.ctx, ctxKey{}, f)
	return ctx, f.scope.close
}

// TagsFrom returns the merged tags of all scopes on ctx, outermost first.
func TagsFrom(ctx context.Context) core.Tags {
	var merged core.Tags
	walkOuterFirst(ctx, func(f *frame) {
		merged = merged.Merge(f.tags)
	})
	return merged
}

// MetadataFrom returns the concatenated metadata of all scopes on ctx,
// outermost first, so inner scopes override single-valued keys.
func MetadataFrom(ctx context.Context) core.Metadata {
	var merged core.Metadata
	walkOuterFirst(ctx, func(f *frame) {
		merged = core.Concat(merged, f.metadata)
	})
	return merged
}

// ScopeFrom returns the innermost scope handle on ctx.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	f := fromContext(ctx)
	if f == nil {
		return nil, false
	}
	return f.scope, true
}

// ShouldForce reports whether a level map on ctx forces records from
// loggerName at level to be logged. The innermost scope whose map matches
// loggerName decides; outer scopes are consulted only when inner maps do
// not match.
func ShouldForce(ctx context.Context, loggerName string, level core.Level) bool {
	for f := fromContext(ctx); f != nil; f = f.parent {
		if f.levels == nil {
			continue
		}
		if min, ok := f.levels.Level(loggerName); ok {
			return level >= min
		}
	}
	return false
}

func walkOuterFirst(ctx context.Context, fn func(*frame)) {
	var frames []*frame
	for f := fromContext(ctx); f != nil; f = f.parent {
		frames = append(frames, f)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		fn(frames[i])
	}
}
