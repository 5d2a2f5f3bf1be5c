package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew_DefaultConfig(t *testing.T) {
	t.Parallel()

	logger := New(nil)
	assert.NotNil(t, logger)
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelInfo,
	})

	logger.Info("test message", "key", "value")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "ts")
	assert.NotContains(t, entries[0], "time")
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}

func TestNew_DebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  ParseLevel("debug"),
	})

	logger.Debug("debug message")

	assert.Contains(t, buf.String(), "debug message")
}

func TestNew_InfoLevel_HidesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelInfo,
	})

	logger.Debug("debug message")

	assert.NotContains(t, buf.String(), "debug message")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "omnibar.log")
	logger, closeFn, err := OpenFile(path, slog.LevelInfo)
	require.NoError(t, err)

	LogSessionOpened(logger, "abc")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"abc"`)
}

func TestOpenFile_Unwritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	logger, closeFn, err := OpenFile(filepath.Join(blocker, "x.log"), slog.LevelInfo)
	assert.Error(t, err)
	require.NotNil(t, logger)
	logger.Info("dropped")
	assert.NoError(t, closeFn())
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelInfo})

	LogSessionOpened(logger, "s1")
	LogSnapshot(logger, 3, 2, 1, 1500*time.Millisecond)
	LogSourceFailed(logger, "chrome-history", errors.New("locked"))
	LogAction(logger, "switched", "https://go.dev")
	LogSessionClosed(logger, "s1", "selected")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 5)

	assert.Equal(t, "session opened", entries[0]["msg"])
	assert.Equal(t, float64(3), entries[1]["tabs"])
	assert.Equal(t, float64(1500), entries[1]["took_ms"])
	assert.Equal(t, "WARN", entries[2]["level"])
	assert.Equal(t, "locked", entries[2]["error"])
	assert.Equal(t, "switched", entries[3]["action"])
	assert.Equal(t, "selected", entries[4]["outcome"])
}
