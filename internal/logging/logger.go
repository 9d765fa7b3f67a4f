// Package logging configures runtime JSONL logging output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
// The handler level stays adjustable after construction so debug mode can be
// flipped from the menu without reopening the sink.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	level  *slog.LevelVar
	closer io.Closer
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// SetDebug raises or restores the handler level at runtime.
func (r Runtime) SetDebug(enabled bool) {
	if r.level == nil {
		return
	}
	if enabled {
		r.level.Set(slog.LevelDebug)
		return
	}
	r.level.Set(slog.LevelInfo)
}

// DebugEnabled reports whether debug-level records are currently kept.
func (r Runtime) DebugEnabled() bool {
	return r.level != nil && r.level.Level() == slog.LevelDebug
}

// New builds a JSONL logger appending under ~/Library/Logs. Debug mode lowers
// the handler level so per-transition and per-subprocess detail is kept.
func New(debug bool) (Runtime, error) {
	path, err := resolveLogPath()
	if err != nil {
		return Runtime{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	level := new(slog.LevelVar)
	if debug {
		level.Set(slog.LevelDebug)
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	return Runtime{Logger: logger, Path: path, level: level, closer: f}, nil
}

// resolveLogPath follows the macOS per-user log convention.
func resolveLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Logs", "talk-local", "log.jsonl"), nil
}
