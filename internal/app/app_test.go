package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theianchan/talk-local/internal/config"
	"github.com/theianchan/talk-local/internal/version"
)

func runExecute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecuteHelp(t *testing.T) {
	code, stdout, _ := runExecute(t, "--help")
	require.Zero(t, code)
	require.Contains(t, stdout, "talk [flags]")
}

func TestExecuteVersion(t *testing.T) {
	code, stdout, _ := runExecute(t, "--version")
	require.Zero(t, code)
	require.Contains(t, stdout, "talk "+version.Version)
}

func TestExecuteRejectsUnknownFlag(t *testing.T) {
	code, _, stderr := runExecute(t, "--bogus")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "unknown flag")
	require.Contains(t, stderr, "Usage:")
}

func TestExecuteReportsConfigParseError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"not_a_key": 1}`), 0o600))

	code, _, stderr := runExecute(t, "--config", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "parse config")
}

func TestExecuteDoctorPassesWithHealthyEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	binary := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	model := filepath.Join(dir, "ggml-tiny.en.bin")
	require.NoError(t, os.WriteFile(model, []byte("ggml"), 0o644))

	path := filepath.Join(dir, "config.jsonc")
	content := fmt.Sprintf(`{
		"whisper": { "binary": %q },
		"models": { "tiny.en": { "path": %q } },
		"default_model": "tiny.en"
	}`, binary, model)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	code, stdout, _ := runExecute(t, "--doctor", "--config", path)
	require.Zero(t, code, stdout)
	require.Contains(t, stdout, "[OK] whisper.binary")
	require.Contains(t, stdout, "[OK] model.tiny.en")
	require.Contains(t, stdout, "[OK] logs")
}

func TestExecuteDoctorFailsOnMissingBinary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, stdout, _ := runExecute(t, "--doctor")
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "[FAIL] whisper.binary")
}

func TestBuildModelStoreMapsEntries(t *testing.T) {
	store, err := buildModelStore(config.ModelsConfig{
		Default: "base.en",
		Entries: []config.ModelEntry{
			{ID: "tiny.en", Name: "Tiny", Path: "/m/tiny.bin"},
			{ID: "base.en", Name: "Base", Path: "/m/base.bin"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "base.en", store.Current().ID)
	require.Len(t, store.List(), 2)
}
