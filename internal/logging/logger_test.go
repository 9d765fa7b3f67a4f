package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLogPathUsesLibraryLogs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "Library", "Logs", "talk-local", "log.jsonl"), path)
}

func TestNewCreatesWritableJSONLogFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	runtime, err := New(false)
	require.NoError(t, err)

	runtime.Logger.Info("unit-test-log", "component", "logging")
	require.NoError(t, runtime.Close())

	contents, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"unit-test-log"`)
	require.Contains(t, string(contents), `"component":"logging"`)

	stat, err := os.Stat(runtime.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestSetDebugFlipsLevelAtRuntime(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	runtime, err := New(false)
	require.NoError(t, err)
	defer runtime.Close()

	require.False(t, runtime.DebugEnabled())
	require.False(t, runtime.Logger.Enabled(context.Background(), slog.LevelDebug))

	runtime.SetDebug(true)
	require.True(t, runtime.DebugEnabled())
	require.True(t, runtime.Logger.Enabled(context.Background(), slog.LevelDebug))

	runtime.Logger.Debug("runtime-debug-line")

	runtime.SetDebug(false)
	require.False(t, runtime.DebugEnabled())
	require.False(t, runtime.Logger.Enabled(context.Background(), slog.LevelDebug))

	contents, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"runtime-debug-line"`)
}

func TestNewDebugEnablesDebugLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	quiet, err := New(false)
	require.NoError(t, err)
	require.False(t, quiet.Logger.Enabled(context.Background(), slog.LevelDebug))
	require.NoError(t, quiet.Close())

	verbose, err := New(true)
	require.NoError(t, err)
	require.True(t, verbose.Logger.Enabled(context.Background(), slog.LevelDebug))

	verbose.Logger.Debug("debug-line")
	require.NoError(t, verbose.Close())

	contents, err := os.ReadFile(verbose.Path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"debug-line"`)
}
