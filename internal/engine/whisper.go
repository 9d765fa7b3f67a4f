package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/theianchan/talk-local/internal/transcript"
)

// WhisperCLI runs the whisper.cpp command-line binary on a recorded WAV file.
type WhisperCLI struct {
	binary string
	logger *slog.Logger
}

// NewWhisperCLI constructs an engine around the configured whisper-cli binary.
func NewWhisperCLI(binary string, logger *slog.Logger) *WhisperCLI {
	return &WhisperCLI{binary: binary, logger: logger}
}

// Transcribe invokes `whisper-cli -m MODEL -f AUDIO -nt -np` and returns the
// cleaned transcript. The call blocks until the process exits or ctx expires.
func (w *WhisperCLI) Transcribe(ctx context.Context, req Request) (string, error) {
	if _, err := os.Stat(req.ModelPath); err != nil {
		return "", fmt.Errorf("model file %q: %w", req.ModelPath, err)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return "", fmt.Errorf("audio file %q: %w", req.AudioPath, err)
	}

	args := []string{
		"-m", req.ModelPath,
		"-f", req.AudioPath,
		"-nt", // no timestamps
		"-np", // no prints except results
	}

	cmd := exec.CommandContext(ctx, w.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return "", fmt.Errorf("whisper-cli exceeded transcription timeout after %s: %w", elapsed.Round(time.Millisecond), ctxErr)
	}
	if runErr != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("run %s: %w", w.binary, runErr)
		}
		return "", fmt.Errorf("run %s: %w (%s)", w.binary, runErr, detail)
	}

	text := transcript.Clean(stdout.String())
	if w.logger != nil {
		w.logger.Debug("whisper-cli finished",
			"model", req.ModelPath,
			"duration_ms", elapsed.Milliseconds(),
			"transcript_length", len(text),
		)
	}
	return text, nil
}
