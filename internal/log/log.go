// Package log provides JSON-lines structured logging for omnibar.
//
// The picker owns the terminal while it runs, so logs go to a file rather
// than stderr:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"info","msg":"session opened","session_id":"..."}
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel converts a config level name into a slog.Level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenFile creates a logger appending to path. The returned close function
// must be called when the logger is no longer needed. If the file cannot be
// opened, a logger that discards everything is returned along with the error.
func OpenFile(path string, level slog.Level) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Discard(), noop, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return Discard(), noop, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(&Config{Output: f, Level: level}), f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(&Config{Output: io.Discard})
}

// LogSessionOpened logs the start of an overlay session.
func LogSessionOpened(logger *slog.Logger, sessionID string) {
	logger.Info("session opened", "session_id", sessionID)
}

// LogSessionClosed logs the end of an overlay session.
func LogSessionClosed(logger *slog.Logger, sessionID, outcome string) {
	logger.Info("session closed", "session_id", sessionID, "outcome", outcome)
}

// LogSnapshot logs the size of a captured snapshot.
func LogSnapshot(logger *slog.Logger, tabs, bookmarks, history int, took time.Duration) {
	logger.Info("snapshot captured",
		"tabs", tabs,
		"bookmarks", bookmarks,
		"history", history,
		"took_ms", took.Milliseconds(),
	)
}

// LogSourceFailed logs a source that contributed nothing to a snapshot.
func LogSourceFailed(logger *slog.Logger, source string, err error) {
	logger.Warn("source failed", "source", source, "error", err)
}

// LogAction logs the action dispatched for a selection.
func LogAction(logger *slog.Logger, action, url string) {
	logger.Info("action dispatched", "action", action, "url", url)
}
