package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "empty binary",
			mutate:  func(cfg *Config) { cfg.Whisper.Binary = "  " },
			wantErr: "whisper.binary",
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Config) { cfg.Whisper.TimeoutSeconds = 0 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "missing toggle chord",
			mutate:  func(cfg *Config) { cfg.Hotkey.Toggle = nil },
			wantErr: "hotkey.toggle",
		},
		{
			name: "toggle equals cancel",
			mutate: func(cfg *Config) {
				cfg.Hotkey.Toggle = []string{"esc"}
				cfg.Hotkey.Cancel = []string{"esc"}
			},
			wantErr: "must differ",
		},
		{
			name:    "empty model catalog",
			mutate:  func(cfg *Config) { cfg.Models.Entries = nil },
			wantErr: "at least one entry",
		},
		{
			name: "duplicate model id",
			mutate: func(cfg *Config) {
				cfg.Models.Entries = append(cfg.Models.Entries, cfg.Models.Entries[0])
			},
			wantErr: "duplicate model id",
		},
		{
			name: "model without path",
			mutate: func(cfg *Config) {
				cfg.Models.Entries[0].Path = ""
			},
			wantErr: "non-empty path",
		},
		{
			name:    "unknown default model",
			mutate:  func(cfg *Config) { cfg.Models.Default = "large-v3" },
			wantErr: "not a configured model",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
