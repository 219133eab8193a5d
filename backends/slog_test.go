package backends

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcallahan/flog/core"
)

type captureHandler struct {
	minLevel slog.Level
	records  []slog.Record
}

func (h *captureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func slogAttrs(r slog.Record) map[string]any {
	out := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	return out
}

func TestSlogForwardsRecord(t *testing.T) {
	h := &captureHandler{minLevel: slog.LevelDebug}
	s := NewSlog(slog.New(h))

	record := newRecord(core.InformationLevel, "user %s logged in", "alice")
	record.LoggerName = "github.com/acme/auth"
	record.Tags = core.TagsOf(core.StringTag("env", "prod"))

	require.NoError(t, s.Log(record))

	require.Len(t, h.records, 1)
	got := h.records[0]
	assert.Equal(t, "user alice logged in", got.Message)
	assert.Equal(t, slog.LevelInfo, got.Level)
	assert.Equal(t, record.Timestamp, got.Time)

	attrs := slogAttrs(got)
	assert.Equal(t, "github.com/acme/auth", attrs["logger"])
	assert.Equal(t, "prod", attrs["env"])
	assert.Contains(t, attrs, "site")
}

func TestSlogLevelMapping(t *testing.T) {
	cases := []struct {
		in   core.Level
		want slog.Level
	}{
		{core.VerboseLevel, slog.LevelDebug - 4},
		{core.DebugLevel, slog.LevelDebug},
		{core.InformationLevel, slog.LevelInfo},
		{core.WarningLevel, slog.LevelWarn},
		{core.ErrorLevel, slog.LevelError},
		{core.FatalLevel, slog.LevelError + 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slogLevel(tc.in), "level %v", tc.in)
	}
}

func TestSlogRespectsHandlerLevel(t *testing.T) {
	h := &captureHandler{minLevel: slog.LevelWarn}
	s := NewSlogHandler(h)

	require.NoError(t, s.Log(newRecord(core.InformationLevel, "filtered")))
	require.NoError(t, s.Log(newRecord(core.ErrorLevel, "kept")))

	require.Len(t, h.records, 1)
	assert.Equal(t, "kept", h.records[0].Message)
}

func TestSlogCauseAttr(t *testing.T) {
	h := &captureHandler{minLevel: slog.LevelDebug}
	s := NewSlogHandler(h)

	cause := errors.New("connection reset")
	record := newRecord(core.ErrorLevel, "request failed")
	record.Metadata = core.WithValue(core.Metadata{}, core.KeyCause, cause)

	require.NoError(t, s.Log(record))

	require.Len(t, h.records, 1)
	attrs := slogAttrs(h.records[0])
	assert.Equal(t, cause, attrs["cause"])
}
