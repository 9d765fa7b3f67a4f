// Package audio captures microphone PCM and flushes recordings to temp WAV files.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate and Channels are fixed by the whisper-cli input contract.
	SampleRate = 16000
	Channels   = 1

	framesPerBuffer = 512
)

// Initialize sets up the PortAudio host once per process.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	return nil
}

// Terminate releases the PortAudio host on process shutdown.
func Terminate() {
	_ = portaudio.Terminate()
}

// Clip is the flushed artifact of one recording. Path is empty when no frames
// were captured.
type Clip struct {
	Path   string
	Frames int
}

// Duration reports the captured audio length at the fixed sample rate.
func (c Clip) Duration() time.Duration {
	return time.Duration(c.Frames) * time.Second / SampleRate
}

// Capture records from the default input device at 16kHz mono s16.
type Capture struct {
	logger *slog.Logger

	mu        sync.Mutex
	recording bool
	samples   []int16

	stream *portaudio.Stream
	buf    []int16
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCapture constructs an idle capture service.
func NewCapture(logger *slog.Logger) *Capture {
	return &Capture{logger: logger}
}

// Start opens the default input stream and begins buffering samples.
func (c *Capture) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording {
		return errors.New("capture already started")
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(Channels, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("open default input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream
	c.buf = buf
	c.samples = nil
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.recording = true

	go c.readLoop(stream, buf, c.stopCh, c.doneCh)
	return nil
}

// readLoop drains the stream into the sample buffer until stopped.
func (c *Capture) readLoop(stream *portaudio.Stream, buf []int16, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			if c.logger != nil {
				c.logger.Warn("input stream read failed", "error", err.Error())
			}
			return
		}

		c.mu.Lock()
		c.samples = append(c.samples, buf...)
		c.mu.Unlock()
	}
}

// Stop halts capture and flushes buffered samples to a temp WAV file.
// A zero-frame recording yields Clip{Frames: 0} with no file on disk.
func (c *Capture) Stop(_ context.Context) (Clip, error) {
	samples, err := c.halt()
	if err != nil {
		return Clip{}, err
	}
	if len(samples) == 0 {
		return Clip{}, nil
	}

	file, err := os.CreateTemp("", "talk-*.wav")
	if err != nil {
		return Clip{}, fmt.Errorf("create temp audio file: %w", err)
	}

	if err := WriteWAV(file, samples, SampleRate, Channels); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return Clip{}, fmt.Errorf("write %q: %w", file.Name(), err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return Clip{}, fmt.Errorf("close %q: %w", file.Name(), err)
	}

	return Clip{Path: file.Name(), Frames: len(samples) / Channels}, nil
}

// Abort halts capture and discards buffered samples.
func (c *Capture) Abort(_ context.Context) error {
	_, err := c.halt()
	return err
}

// halt stops the stream, joins the read loop, and returns the buffered samples.
func (c *Capture) halt() ([]int16, error) {
	c.mu.Lock()
	if !c.recording {
		c.mu.Unlock()
		return nil, errors.New("capture not started")
	}
	c.recording = false
	stream := c.stream
	stopCh := c.stopCh
	doneCh := c.doneCh
	c.stream = nil
	c.mu.Unlock()

	close(stopCh)
	<-doneCh

	_ = stream.Stop()
	_ = stream.Close()

	c.mu.Lock()
	samples := c.samples
	c.samples = nil
	c.mu.Unlock()

	return samples, nil
}
