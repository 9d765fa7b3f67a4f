// Package config resolves, parses, validates, and defaults talk configuration.
package config

// Config is the fully materialized runtime configuration used by talk.
type Config struct {
	Whisper WhisperConfig
	Hotkey  HotkeyConfig
	Models  ModelsConfig
	Debug   DebugConfig
}

// WhisperConfig locates the transcription binary and bounds its runtime.
type WhisperConfig struct {
	Binary         string
	TimeoutSeconds int
}

// HotkeyConfig holds the global key chords as lowercase key names.
type HotkeyConfig struct {
	Toggle []string
	Cancel []string
}

// ModelsConfig is the configured model catalog plus the startup selection.
type ModelsConfig struct {
	Default string
	Entries []ModelEntry
}

// ModelEntry is one selectable whisper model.
type ModelEntry struct {
	ID   string
	Name string
	Path string
}

// DebugConfig controls verbose logging.
type DebugConfig struct {
	Enable bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
