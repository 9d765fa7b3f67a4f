// Package hotkey observes global key chords and raises abstract session events.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	hook "github.com/robotn/gohook"
)

// Events is the capability surface the listener drives. The session controller
// implements it; tests drive the controller directly without any OS hook.
type Events interface {
	TogglePressed()
	CancelPressed()
}

// Listener registers global KeyDown chords for toggle and cancel.
type Listener struct {
	toggle []string
	cancel []string
	logger *slog.Logger
}

// NewListener validates the configured chords. Cancel may be empty; toggle may not.
func NewListener(toggle, cancel []string, logger *slog.Logger) (*Listener, error) {
	normalizedToggle, err := normalizeChord(toggle)
	if err != nil {
		return nil, fmt.Errorf("toggle hotkey: %w", err)
	}
	if len(normalizedToggle) == 0 {
		return nil, errors.New("toggle hotkey must not be empty")
	}

	normalizedCancel, err := normalizeChord(cancel)
	if err != nil {
		return nil, fmt.Errorf("cancel hotkey: %w", err)
	}

	return &Listener{toggle: normalizedToggle, cancel: normalizedCancel, logger: logger}, nil
}

// Toggle returns the normalized toggle chord.
func (l *Listener) Toggle() []string {
	return append([]string(nil), l.toggle...)
}

// Cancel returns the normalized cancel chord.
func (l *Listener) Cancel() []string {
	return append([]string(nil), l.cancel...)
}

// Run blocks servicing the OS-level keyboard hook until ctx is cancelled.
func (l *Listener) Run(ctx context.Context, events Events) {
	hook.Register(hook.KeyDown, l.toggle, func(hook.Event) {
		events.TogglePressed()
	})
	if len(l.cancel) > 0 {
		hook.Register(hook.KeyDown, l.cancel, func(hook.Event) {
			events.CancelPressed()
		})
	}

	if l.logger != nil {
		l.logger.Info("hotkey listener started",
			"toggle", strings.Join(l.toggle, "+"),
			"cancel", strings.Join(l.cancel, "+"),
		)
	}

	stream := hook.Start()
	done := hook.Process(stream)

	select {
	case <-ctx.Done():
		hook.End()
		<-done
	case <-done:
	}
}

// normalizeChord lowercases and trims key names, rejecting blank entries.
func normalizeChord(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, errors.New("key name must not be blank")
		}
		out = append(out, key)
	}
	return out, nil
}
