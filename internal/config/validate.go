package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Whisper.Binary) == "" {
		return nil, fmt.Errorf("whisper.binary must not be empty")
	}
	if cfg.Whisper.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("whisper.timeout_seconds must be > 0")
	}

	if len(cfg.Hotkey.Toggle) == 0 {
		return nil, fmt.Errorf("hotkey.toggle must not be empty")
	}
	if chordKey(cfg.Hotkey.Toggle) == chordKey(cfg.Hotkey.Cancel) {
		return nil, fmt.Errorf("hotkey.toggle and hotkey.cancel must differ")
	}

	if len(cfg.Models.Entries) == 0 {
		return nil, fmt.Errorf("models must define at least one entry")
	}
	seen := make(map[string]bool, len(cfg.Models.Entries))
	for _, entry := range cfg.Models.Entries {
		if strings.TrimSpace(entry.ID) == "" {
			return nil, fmt.Errorf("models entries must have non-empty ids")
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("duplicate model id %q", entry.ID)
		}
		seen[entry.ID] = true
		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("model %q must have a non-empty path", entry.ID)
		}
	}

	if strings.TrimSpace(cfg.Models.Default) == "" {
		return nil, fmt.Errorf("default_model must not be empty")
	}
	if !seen[cfg.Models.Default] {
		return nil, fmt.Errorf("default_model %q is not a configured model", cfg.Models.Default)
	}

	return warnings, nil
}

func chordKey(keys []string) string {
	return strings.Join(keys, "+")
}
