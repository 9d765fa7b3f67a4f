// Package inject types transcript text at the current cursor position.
package inject

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-vgo/robotgo"
)

// settleDelay gives the user time to release the hotkey chord before
// synthetic keystrokes start, so modifier keys do not alter the typed text.
const settleDelay = 200 * time.Millisecond

// Typer injects text through simulated keystrokes via the accessibility API.
type Typer struct {
	logger *slog.Logger
}

// NewTyper constructs a keystroke injector.
func NewTyper(logger *slog.Logger) *Typer {
	return &Typer{logger: logger}
}

// Type writes text at the focused cursor. An empty string is a no-op success.
func (t *Typer) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("typing aborted: %w", ctx.Err())
	case <-time.After(settleDelay):
	}

	robotgo.TypeStr(text)

	if t.logger != nil {
		t.logger.Debug("typed transcript", "length", len(text))
	}
	return nil
}
