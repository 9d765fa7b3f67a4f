package tray

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 5 * time.Second

// notify posts a macOS notification via osascript.
func notify(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	script := notificationScript(title, body)
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("osascript: %w", err)
		}
		return fmt.Errorf("osascript: %w (%s)", err, trimmed)
	}
	return nil
}

// notificationScript builds the AppleScript line. %q escaping matches
// AppleScript string escapes for quotes and backslashes.
func notificationScript(title, body string) string {
	return fmt.Sprintf("display notification %q with title %q", body, title)
}

// openPath reveals a file with the default handler.
func openPath(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if out, err := exec.CommandContext(ctx, "open", path).CombinedOutput(); err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("open %s: %w", path, err)
		}
		return fmt.Errorf("open %s: %w (%s)", path, err, trimmed)
	}
	return nil
}
