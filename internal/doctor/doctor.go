// Package doctor runs runtime readiness diagnostics for config, engine, and logs.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theianchan/talk-local/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Warn    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass. Warnings do not fail the report.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		switch {
		case !check.Pass:
			status = "FAIL"
		case check.Warn:
			status = "WARN"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded, logDir string) Report {
	checks := []Check{}

	configMsg := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMsg = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Warn: !cfg.Exists, Message: configMsg})

	checks = append(checks, checkWhisperBinary(cfg.Config.Whisper.Binary))
	checks = append(checks, checkModels(cfg.Config.Models)...)
	checks = append(checks, checkLogDir(logDir))

	return Report{Checks: checks}
}

// checkWhisperBinary validates that the transcription binary exists and is executable.
func checkWhisperBinary(binary string) Check {
	info, err := os.Stat(binary)
	if err != nil {
		return Check{Name: "whisper.binary", Pass: false, Message: fmt.Sprintf("not found: %s", binary)}
	}
	if info.IsDir() {
		return Check{Name: "whisper.binary", Pass: false, Message: fmt.Sprintf("is a directory: %s", binary)}
	}
	if info.Mode().Perm()&0o111 == 0 {
		return Check{Name: "whisper.binary", Pass: false, Message: fmt.Sprintf("not executable: %s", binary)}
	}
	return Check{Name: "whisper.binary", Pass: true, Message: fmt.Sprintf("found at %s", binary)}
}

// checkModels fails on a missing default model and warns on other missing entries,
// since those only break once selected from the menu.
func checkModels(models config.ModelsConfig) []Check {
	checks := make([]Check, 0, len(models.Entries))
	for _, entry := range models.Entries {
		name := fmt.Sprintf("model.%s", entry.ID)
		isDefault := entry.ID == models.Default

		if _, err := os.Stat(entry.Path); err != nil {
			if isDefault {
				checks = append(checks, Check{Name: name, Pass: false, Message: fmt.Sprintf("default model file missing: %s", entry.Path)})
			} else {
				checks = append(checks, Check{Name: name, Pass: true, Warn: true, Message: fmt.Sprintf("model file missing: %s", entry.Path)})
			}
			continue
		}

		message := fmt.Sprintf("found at %s", entry.Path)
		if isDefault {
			message += " (default)"
		}
		checks = append(checks, Check{Name: name, Pass: true, Message: message})
	}
	return checks
}

// checkLogDir verifies the log directory can be created and written.
func checkLogDir(dir string) Check {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Check{Name: "logs", Pass: false, Message: fmt.Sprintf("cannot create %s: %v", dir, err)}
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Check{Name: "logs", Pass: false, Message: fmt.Sprintf("cannot write to %s: %v", dir, err)}
	}
	_ = os.Remove(probe)

	return Check{Name: "logs", Pass: true, Message: fmt.Sprintf("writable at %s", dir)}
}
