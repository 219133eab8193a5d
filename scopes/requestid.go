package scopes

import (
	"context"

	"github.com/google/uuid"

	"github.com/tcallahan/flog/core"
)

// RequestIDTag is the tag name WithRequestID installs.
const RequestIDTag = "request_id"

// WithRequestID installs a scope that tags every record inside it with a
// fresh request id, and returns the id for propagation to peers.
func WithRequestID(ctx context.Context) (context.Context, CloseFunc, string) {
	id := uuid.NewString()
	ctx, done := NewContext(ctx).
		WithTag(core.StringTag(RequestIDTag, id)).
		Install()
	return ctx, done, id
}

// RequestIDFrom returns the innermost request id on ctx, or false if none
// was installed.
func RequestIDFrom(ctx context.Context) (string, bool) {
	tags := TagsFrom(ctx)
	for i := tags.Len() - 1; i >= 0; i-- {
		tag := tags.At(i)
		if tag.Name != RequestIDTag {
			continue
		}
		if id, ok := tag.Value.(string); ok {
			return id, true
		}
	}
	return "", false
}
