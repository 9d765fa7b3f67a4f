// Package engine invokes the whisper.cpp CLI for one-shot file transcription.
package engine

import "context"

// Request names the two file inputs of one transcription invocation.
type Request struct {
	AudioPath string
	ModelPath string
}

// Engine is the synchronous speech-to-text contract consumed by the session
// controller. The returned text may legitimately be empty.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}
