package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theianchan/talk-local/internal/engine"
	"github.com/theianchan/talk-local/internal/fsm"
	"github.com/theianchan/talk-local/internal/models"
)

// Controller orchestrates session state transitions and side effects.
//
// All state mutation happens on the Run goroutine: hotkey callbacks and
// background completions only enqueue events, which are processed strictly
// in arrival order.
type Controller struct {
	logger        *slog.Logger
	recorder      Recorder
	engine        Engine
	typist        Typist
	status        Status
	modelStore    *models.Store
	engineTimeout time.Duration

	events chan event

	mu      sync.RWMutex
	state   fsm.State
	current *Session
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	recorder Recorder,
	eng Engine,
	typist Typist,
	status Status,
	modelStore *models.Store,
	engineTimeout time.Duration,
) *Controller {
	if status == nil {
		status = noopStatus{}
	}

	return &Controller{
		logger:        logger,
		recorder:      recorder,
		engine:        eng,
		typist:        typist,
		status:        status,
		modelStore:    modelStore,
		engineTimeout: engineTimeout,
		state:         fsm.StateIdle,
		events:        make(chan event, 16),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// TogglePressed enqueues a toggle event from the hotkey listener or menu.
func (c *Controller) TogglePressed() {
	c.post(event{kind: eventToggle})
}

// CancelPressed enqueues a cancel event; honored only while recording.
func (c *Controller) CancelPressed() {
	c.post(event{kind: eventCancel})
}

// post enqueues without blocking the caller; the queue is sized well past any
// realistic hotkey burst, so a full queue means the loop is gone.
func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	default:
		c.logWarn("event queue full; dropping event", "kind", int(ev.kind))
	}
}

// Run processes events until ctx is cancelled, then cleans up any live session.
func (c *Controller) Run(ctx context.Context) {
	defer c.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ctx, ev)
		}
	}
}

func (c *Controller) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventToggle:
		c.handleToggle(ctx)
	case eventCancel:
		c.handleCancel(ctx)
	case eventEngineResult:
		c.handleEngineResult(ctx, ev)
	case eventInjectionDone:
		c.handleInjectionDone(ev)
	default:
		c.logWarn("unknown event kind", "kind", int(ev.kind))
	}
}

// handleToggle starts a session while idle, stops recording while recording,
// and is ignored in every other state.
func (c *Controller) handleToggle(ctx context.Context) {
	switch c.State() {
	case fsm.StateIdle:
		c.startSession(ctx)
	case fsm.StateRecording:
		c.stopAndTranscribe(ctx)
	default:
		c.logDebug("toggle ignored", "state", string(c.State()))
	}
}

func (c *Controller) startSession(ctx context.Context) {
	sess := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Model:     c.modelStore.Current(),
	}

	if err := c.recorder.Start(ctx); err != nil {
		c.status.ReportError(fmt.Sprintf("Microphone unavailable: %v", err))
		c.logError("start capture failed", fmt.Errorf("%w: %v", ErrDeviceUnavailable, err))
		return
	}

	if err := c.transition(fsm.EventStart); err != nil {
		_ = c.recorder.Abort(ctx)
		c.logError("start transition rejected", err)
		return
	}

	c.setCurrent(sess)
	c.status.SetStatus(StatusRecording)
}

func (c *Controller) stopAndTranscribe(ctx context.Context) {
	sess := c.currentSession()
	if sess == nil {
		c.logWarn("recording state without session; resetting")
		c.toErrorAndReset()
		return
	}

	clip, err := c.recorder.Stop(ctx)
	if err != nil {
		c.status.ReportError(fmt.Sprintf("Recording failed: %v", err))
		c.logError("stop capture failed", err)
		c.finishSession(sess)
		return
	}

	if clip.Frames == 0 {
		if clip.Path != "" {
			c.removeArtifact(clip.Path)
		}
		c.status.ReportError(ErrEmptyRecording.Error())
		c.logDebug("empty recording discarded", "session", sess.ID)
		c.finishSession(sess)
		return
	}

	sess.AudioPath = clip.Path
	if err := c.transition(fsm.EventStop); err != nil {
		c.logError("stop transition rejected", err)
		c.finishSession(sess)
		return
	}
	c.status.SetStatus(StatusTranscribing)
	c.logDebug("recording flushed",
		"session", sess.ID,
		"audio", clip.Path,
		"duration_ms", clip.Duration().Milliseconds(),
	)

	req := engine.Request{AudioPath: clip.Path, ModelPath: sess.Model.Path}
	go func() {
		engineCtx := ctx
		if c.engineTimeout > 0 {
			var cancel context.CancelFunc
			engineCtx, cancel = context.WithTimeout(ctx, c.engineTimeout)
			defer cancel()
		}
		text, err := c.engine.Transcribe(engineCtx, req)
		c.post(event{kind: eventEngineResult, sessionID: sess.ID, text: text, err: err})
	}()
}

// handleCancel aborts capture while recording; a no-op in any other state.
func (c *Controller) handleCancel(ctx context.Context) {
	if c.State() != fsm.StateRecording {
		c.logDebug("cancel ignored", "state", string(c.State()))
		return
	}

	sess := c.currentSession()
	if err := c.recorder.Abort(ctx); err != nil {
		c.logError("abort capture failed", err)
	}

	if err := c.transition(fsm.EventCancel); err != nil {
		c.logError("cancel transition rejected", err)
		c.toErrorAndReset()
	}
	if sess != nil {
		c.finishSessionKeepState(sess)
	}
	c.status.SetStatus(StatusReady)
}

func (c *Controller) handleEngineResult(ctx context.Context, ev event) {
	sess := c.currentSession()
	if sess == nil || sess.ID != ev.sessionID {
		c.logDebug("stale engine result discarded", "session", ev.sessionID)
		return
	}

	if ev.err != nil {
		if errors.Is(ev.err, context.DeadlineExceeded) {
			c.status.ReportError("Transcription timed out")
			c.logError("engine invocation failed", fmt.Errorf("%w: %v", ErrEngineTimeout, ev.err))
		} else {
			c.status.ReportError(fmt.Sprintf("Transcription failed: %v", ev.err))
			c.logError("engine invocation failed", ev.err)
		}
		c.finishSession(sess)
		return
	}

	if err := c.transition(fsm.EventTranscribed); err != nil {
		c.logError("transcribed transition rejected", err)
		c.finishSession(sess)
		return
	}
	c.status.SetStatus(StatusTyping)

	// Whitespace-only output counts as success with an empty string; the
	// typist treats empty input as a no-op.
	text := strings.TrimSpace(ev.text)
	go func() {
		err := c.typist.Type(ctx, text)
		c.post(event{kind: eventInjectionDone, sessionID: sess.ID, text: text, err: err})
	}()
}

func (c *Controller) handleInjectionDone(ev event) {
	sess := c.currentSession()
	if sess == nil || sess.ID != ev.sessionID {
		c.logDebug("stale injection result discarded", "session", ev.sessionID)
		return
	}

	if ev.err != nil {
		c.status.ReportError(fmt.Sprintf("Typing failed: %v", ev.err))
		c.logError("keystroke injection failed", fmt.Errorf("%w: %v", ErrInjectionFailed, ev.err))
		c.finishSession(sess)
		return
	}

	if err := c.transition(fsm.EventTyped); err != nil {
		c.logError("typed transition rejected", err)
		c.finishSession(sess)
		return
	}

	if ev.text != "" {
		c.status.Notify("Transcription complete", truncate(ev.text, 100))
	} else {
		c.status.Notify("No speech detected", "The recording produced no text")
	}
	c.finishSessionKeepState(sess)
	c.status.SetStatus(StatusReady)
}

// finishSession forces the controller back to idle and deletes the session's
// audio artifact. Used on every failure path.
func (c *Controller) finishSession(sess *Session) {
	c.toErrorAndReset()
	c.finishSessionKeepState(sess)
	c.status.SetStatus(StatusReady)
}

// finishSessionKeepState deletes the audio artifact and clears the session
// without touching FSM state.
func (c *Controller) finishSessionKeepState(sess *Session) {
	if sess.AudioPath != "" {
		c.removeArtifact(sess.AudioPath)
	}
	c.setCurrent(nil)
	c.logDebug("session finished",
		"session", sess.ID,
		"duration_ms", time.Since(sess.StartedAt).Milliseconds(),
	)
}

func (c *Controller) removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logError("remove audio artifact failed", err)
	}
}

// shutdown guarantees no orphaned temp files on any termination path.
func (c *Controller) shutdown() {
	if c.State() == fsm.StateRecording {
		_ = c.recorder.Abort(context.Background())
	}
	if sess := c.currentSession(); sess != nil {
		if sess.AudioPath != "" {
			c.removeArtifact(sess.AudioPath)
		}
		c.setCurrent(nil)
	}
}

// transition applies one FSM event and logs the state change.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	prev := c.state
	c.state = next
	if c.logger != nil {
		c.logger.Debug("transition", "from", string(prev), "event", string(event), "to", string(next))
	}
	return nil
}

// toErrorAndReset transitions to error and back to idle best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

func (c *Controller) currentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Controller) setCurrent(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = sess
}

func (c *Controller) logError(msg string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Error(msg, "error", err.Error())
}

func (c *Controller) logWarn(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, args...)
}

func (c *Controller) logDebug(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(msg, args...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
