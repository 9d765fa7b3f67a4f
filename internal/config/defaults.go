package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Whisper: WhisperConfig{
			Binary:         expandHome("~/whisper.cpp/build/bin/whisper-cli"),
			TimeoutSeconds: 30,
		},
		Hotkey: HotkeyConfig{
			Toggle: []string{"cmd", "."},
			Cancel: []string{"esc"},
		},
		Models: ModelsConfig{
			Default: "tiny.en",
			Entries: []ModelEntry{
				{
					ID:   "tiny.en",
					Name: "Tiny (English)",
					Path: expandHome("~/whisper.cpp/models/ggml-tiny.en.bin"),
				},
				{
					ID:   "base.en",
					Name: "Base (English)",
					Path: expandHome("~/whisper.cpp/models/ggml-base.en.bin"),
				},
			},
		},
		Debug: DebugConfig{},
	}
}

// expandHome resolves a leading ~/ against the current user's home directory.
// Paths are returned untouched when the home directory cannot be resolved.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
