package config

import (
	"errors"
	"fmt"
	"os"
)

// Loaded is the result of resolving and reading the runtime configuration.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load locates config.jsonc, layers it over the built-in defaults, and
// validates the result. A missing file is not an error: the app runs on
// defaults and surfaces a warning so the user knows which path to create.
func Load(explicitPath string) (Loaded, error) {
	path, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg, warnings, parseErr := Parse(string(content), Default())
		if parseErr != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", path, parseErr)
		}
		return Loaded{Path: path, Config: cfg, Warnings: warnings, Exists: true}, nil
	case errors.Is(err, os.ErrNotExist):
		return defaultsLoaded(path), nil
	default:
		return Loaded{}, fmt.Errorf("read config %q: %w", path, err)
	}
}

// defaultsLoaded reports the built-in configuration with a not-found warning.
func defaultsLoaded(path string) Loaded {
	return Loaded{
		Path:   path,
		Config: Default(),
		Warnings: []Warning{{
			Message: fmt.Sprintf("config file %q not found; starting with built-in defaults", path),
		}},
	}
}
