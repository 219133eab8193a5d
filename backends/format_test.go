package backends

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tcallahan/flog/core"
)

// newRecord builds a record with a fixed timestamp and site so text
// output is deterministic.
func newRecord(level core.Level, format string, args ...any) *core.Record {
	return &core.Record{
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 123_000_000, time.UTC),
		Level:     level,
		Site: core.LogSite{
			Function: "github.com/acme/billing.Process",
			File:     "billing.go",
			Line:     42,
		},
		Format: format,
		Args:   args,
	}
}

func TestAppendTextBasic(t *testing.T) {
	record := newRecord(core.InformationLevel, "started in %dms", 12)

	line := string(AppendText(nil, record))

	assert.Equal(t, "[2026-03-14 09:30:00.123] [INF] started in 12ms\n", line)
}

func TestAppendTextLoggerName(t *testing.T) {
	record := newRecord(core.WarningLevel, "slow query")
	record.LoggerName = "github.com/acme/billing"

	line := string(AppendText(nil, record))

	assert.Equal(t, "[2026-03-14 09:30:00.123] [WRN] github.com/acme/billing: slow query\n", line)
}

func TestAppendTextTagsAndMetadata(t *testing.T) {
	attempts := core.NewKey[int]("attempts")
	record := newRecord(core.ErrorLevel, "payment failed")
	record.Tags = core.TagsOf(core.StringTag("env", "prod"), core.NameTag("canary"))
	record.Metadata = core.WithValue(core.Metadata{}, attempts, 3)

	line := string(AppendText(nil, record))

	assert.Contains(t, line, "[env=prod canary]")
	assert.Contains(t, line, "attempts=3")
}

func TestAppendTextCauseSkippedForced(t *testing.T) {
	record := newRecord(core.ErrorLevel, "flush failed")
	md := core.WithValue(core.Metadata{}, core.KeyCause, errors.New("disk full"))
	md = core.WithValue(md, core.KeySkippedCount, int64(17))
	md = core.WithValue(md, core.KeyWasForced, true)
	record.Metadata = md

	line := string(AppendText(nil, record))

	assert.Contains(t, line, ` cause="disk full"`)
	assert.Contains(t, line, " (skipped 17)")
	assert.Contains(t, line, " (forced)")
	// Control keys render through their dedicated markers, not as k=v.
	assert.NotContains(t, line, "skipped=")
	assert.NotContains(t, line, "forced=")
}

func TestAppendTextStackTrace(t *testing.T) {
	record := newRecord(core.ErrorLevel, "boom")
	record.Metadata = core.WithValue(core.Metadata{}, core.KeyStackTrace,
		"github.com/acme/billing.Process\n\tbilling.go:42")

	out := string(AppendText(nil, record))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "boom")
	assert.Equal(t, "github.com/acme/billing.Process", lines[1])
}

func TestAppendTextRateLimitKeysRender(t *testing.T) {
	record := newRecord(core.InformationLevel, "tick")
	record.Metadata = core.WithValue(core.Metadata{}, core.KeyLogEveryN, uint64(100))

	line := string(AppendText(nil, record))

	assert.Contains(t, line, "log_every_n=100")
}
