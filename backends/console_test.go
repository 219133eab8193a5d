package backends

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcallahan/flog/core"
)

func TestConsolePlain(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.Log(newRecord(core.InformationLevel, "hello")))

	assert.Equal(t, "[2026-03-14 09:30:00.123] [INF] hello\n", buf.String())
	require.NoError(t, c.Close())
}

func TestConsoleColor(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf).WithColor(true)

	require.NoError(t, c.Log(newRecord(core.ErrorLevel, "bad")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[31m"), "expected red prefix, got %q", out)
	assert.True(t, strings.HasSuffix(out, "\x1b[0m\n"), "expected reset before newline, got %q", out)
}

func TestConsoleColorInfoHasNoEscape(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf).WithColor(true)

	require.NoError(t, c.Log(newRecord(core.InformationLevel, "plain")))

	// Information has no color code, but the reset is still appended.
	assert.False(t, strings.HasPrefix(buf.String(), "\x1b["))
}

// Console's own lock must keep whole lines intact even when the
// underlying writer is a plain buffer.
func TestConsoleConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_ = c.Log(newRecord(core.DebugLevel, "line"))
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 200)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "line"), "interleaved line: %q", line)
	}
}
