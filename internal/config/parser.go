package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Parse reads configuration content as a single JSONC object layered over base.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		return Config{}, nil, fmt.Errorf("config must be a JSONC object starting with '{'")
	}

	return parseJSONC(content, base)
}

type jsoncConfig struct {
	Whisper      *jsoncWhisper         `json:"whisper"`
	Hotkey       *jsoncHotkey          `json:"hotkey"`
	Models       map[string]jsoncModel `json:"models"`
	DefaultModel *string               `json:"default_model"`
	Debug        *jsoncDebug           `json:"debug"`
}

type jsoncWhisper struct {
	Binary         *string `json:"binary"`
	TimeoutSeconds *int    `json:"timeout_seconds"`
}

type jsoncHotkey struct {
	Toggle *jsoncStringList `json:"toggle"`
	Cancel *jsoncStringList `json:"cancel"`
}

type jsoncModel struct {
	Name *string `json:"name"`
	Path *string `json:"path"`
}

type jsoncDebug struct {
	Enable *bool `json:"enable"`
}

type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		parts := strings.Split(single, "+")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("expected string array or '+'-delimited string")
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings := payload.applyTo(&cfg)

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) []Warning {
	warnings := make([]Warning, 0)

	if payload.Whisper != nil {
		if payload.Whisper.Binary != nil {
			cfg.Whisper.Binary = expandHome(strings.TrimSpace(*payload.Whisper.Binary))
		}
		if payload.Whisper.TimeoutSeconds != nil {
			cfg.Whisper.TimeoutSeconds = *payload.Whisper.TimeoutSeconds
		}
	}

	if payload.Hotkey != nil {
		if payload.Hotkey.Toggle != nil {
			cfg.Hotkey.Toggle = normalizeChord(*payload.Hotkey.Toggle)
		}
		if payload.Hotkey.Cancel != nil {
			cfg.Hotkey.Cancel = normalizeChord(*payload.Hotkey.Cancel)
		}
	}

	// A configured model catalog replaces the defaults rather than merging, so
	// removing an entry from the file actually removes the model.
	if len(payload.Models) > 0 {
		entries := make([]ModelEntry, 0, len(payload.Models))
		for id, model := range payload.Models {
			entry := ModelEntry{ID: strings.TrimSpace(id)}
			if model.Name != nil {
				entry.Name = strings.TrimSpace(*model.Name)
			}
			if entry.Name == "" {
				entry.Name = entry.ID
			}
			if model.Path != nil {
				entry.Path = expandHome(strings.TrimSpace(*model.Path))
			}
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
		cfg.Models.Entries = entries
	}

	if payload.DefaultModel != nil {
		cfg.Models.Default = strings.TrimSpace(*payload.DefaultModel)
	}

	if payload.Debug != nil && payload.Debug.Enable != nil {
		cfg.Debug.Enable = *payload.Debug.Enable
	}

	return warnings
}

func normalizeChord(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		out = append(out, key)
	}
	return out
}
