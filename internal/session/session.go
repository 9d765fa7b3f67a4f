// Package session coordinates the record, transcribe, and type lifecycle.
package session

import (
	"time"

	"github.com/theianchan/talk-local/internal/models"
)

// Session is one record→transcribe→type attempt, created on toggle while idle
// and discarded once the controller returns to idle.
type Session struct {
	ID        string
	StartedAt time.Time
	AudioPath string
	Model     models.Descriptor
}

// Status display labels pushed to the menu bar on every transition.
const (
	StatusReady        = "Ready"
	StatusRecording    = "Recording"
	StatusTranscribing = "Transcribing"
	StatusTyping       = "Typing"
)

type eventKind int

const (
	eventToggle eventKind = iota + 1
	eventCancel
	eventEngineResult
	eventInjectionDone
)

// event is one unit of work on the controller's serial queue. Completion
// events carry the session ID they belong to so stale results can be dropped.
type event struct {
	kind      eventKind
	sessionID string
	text      string
	err       error
}
