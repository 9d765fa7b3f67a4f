package session

import (
	"context"
	"errors"

	"github.com/theianchan/talk-local/internal/audio"
	"github.com/theianchan/talk-local/internal/engine"
)

// Sentinel failures surfaced by the controller. ErrEmptyRecording means the
// toggle was released before the audio device buffered any frames; the engine
// is never invoked for such recordings.
var (
	ErrEmptyRecording    = errors.New("no audio captured; recording was too short")
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrEngineTimeout     = errors.New("transcription engine timed out")
	ErrInjectionFailed   = errors.New("keystroke injection failed")
)

// Recorder abstracts microphone capture for session orchestration.
type Recorder interface {
	Start(context.Context) error
	Stop(context.Context) (audio.Clip, error)
	Abort(context.Context) error
}

// Engine is the blocking speech-to-text call dispatched off the event loop.
type Engine interface {
	Transcribe(context.Context, engine.Request) (string, error)
}

// Typist injects transcript text at the cursor. Empty input must succeed.
type Typist interface {
	Type(context.Context, string) error
}

// Status is the fire-and-forget status display and notification contract.
type Status interface {
	SetStatus(label string)
	Notify(title, body string)
	ReportError(message string)
}

// noopStatus preserves controller flow when no status display is wired.
type noopStatus struct{}

func (noopStatus) SetStatus(string)      {}
func (noopStatus) Notify(string, string) {}
func (noopStatus) ReportError(string)    {}
