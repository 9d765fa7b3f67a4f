// Package ipc provides the single-instance guard and control socket.
package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Request is one control command: status, toggle, cancel, or quit.
type Request struct {
	Command string `json:"command"`
}

// Response reports the outcome plus the session state at handling time.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Both directions carry a single newline-delimited JSON value per command.

func encodeValue(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func decodeValue(r *bufio.Reader, v any) error {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	return nil
}
