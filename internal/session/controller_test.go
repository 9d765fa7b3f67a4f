package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theianchan/talk-local/internal/audio"
	"github.com/theianchan/talk-local/internal/engine"
	"github.com/theianchan/talk-local/internal/fsm"
	"github.com/theianchan/talk-local/internal/models"
)

type fakeRecorder struct {
	mu       sync.Mutex
	t        *testing.T
	startErr error
	stopErr  error
	frames   int
	starts   int
	aborts   int
	lastPath string
}

func (r *fakeRecorder) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.starts++
	return nil
}

func (r *fakeRecorder) Stop(context.Context) (audio.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopErr != nil {
		return audio.Clip{}, r.stopErr
	}
	if r.frames == 0 {
		return audio.Clip{}, nil
	}

	file, err := os.CreateTemp(r.t.TempDir(), "talk-*.wav")
	require.NoError(r.t, err)
	require.NoError(r.t, file.Close())
	r.lastPath = file.Name()
	return audio.Clip{Path: file.Name(), Frames: r.frames}, nil
}

func (r *fakeRecorder) Abort(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborts++
	return nil
}

func (r *fakeRecorder) audioPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPath
}

func (r *fakeRecorder) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *fakeRecorder) abortCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborts
}

type fakeEngine struct {
	mu    sync.Mutex
	text  string
	err   error
	delay time.Duration
	calls int
}

func (e *fakeEngine) Transcribe(ctx context.Context, _ engine.Request) (string, error) {
	e.mu.Lock()
	e.calls++
	text, err, delay := e.text, e.err, e.delay
	e.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return text, err
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type fakeTypist struct {
	mu    sync.Mutex
	err   error
	typed []string
}

func (t *fakeTypist) Type(_ context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.typed = append(t.typed, text)
	return nil
}

func (t *fakeTypist) typedTexts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.typed...)
}

type fakeStatus struct {
	mu       sync.Mutex
	statuses []string
	notices  []string
	errs     []string
}

func (s *fakeStatus) SetStatus(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, label)
}

func (s *fakeStatus) Notify(title, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, title)
}

func (s *fakeStatus) ReportError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, message)
}

func (s *fakeStatus) lastStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return ""
	}
	return s.statuses[len(s.statuses)-1]
}

func (s *fakeStatus) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

func testStore(t *testing.T) *models.Store {
	t.Helper()
	store, err := models.NewStore([]models.Descriptor{
		{ID: "tiny.en", DisplayName: "Tiny (English)", Path: "/models/ggml-tiny.en.bin"},
	}, "tiny.en")
	require.NoError(t, err)
	return store
}

type harness struct {
	ctrl     *Controller
	recorder *fakeRecorder
	engine   *fakeEngine
	typist   *fakeTypist
	status   *fakeStatus
	cancel   context.CancelFunc
}

func newHarness(t *testing.T, recorder *fakeRecorder, eng *fakeEngine, typist *fakeTypist, timeout time.Duration) *harness {
	t.Helper()
	if recorder == nil {
		recorder = &fakeRecorder{t: t, frames: audio.SampleRate}
	}
	recorder.t = t
	if eng == nil {
		eng = &fakeEngine{}
	}
	if typist == nil {
		typist = &fakeTypist{}
	}
	status := &fakeStatus{}

	ctrl := NewController(nil, recorder, eng, typist, status, testStore(t), timeout)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &harness{ctrl: ctrl, recorder: recorder, engine: eng, typist: typist, status: status, cancel: cancel}
}

func waitForState(t *testing.T, ctrl *Controller, want fsm.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return ctrl.State() == want
	}, 2*time.Second, 5*time.Millisecond, "expected state %s, at %s", want, ctrl.State())
}

func waitForIdle(t *testing.T, h *harness) {
	t.Helper()
	waitForState(t, h.ctrl, fsm.StateIdle)
	require.Eventually(t, func() bool {
		return h.ctrl.currentSession() == nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFullLifecycleTypesTranscript(t *testing.T) {
	eng := &fakeEngine{text: "hello world"}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	require.Equal(t, StatusRecording, h.status.lastStatus())

	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Equal(t, []string{"hello world"}, h.typist.typedTexts())
	require.Equal(t, StatusReady, h.status.lastStatus())
	require.Zero(t, h.status.errorCount())
	require.NoFileExists(t, h.recorder.audioPath())
}

func TestCancelWhileRecordingSkipsEngine(t *testing.T) {
	h := newHarness(t, nil, nil, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)

	h.ctrl.CancelPressed()
	waitForIdle(t, h)

	require.Zero(t, h.engine.callCount())
	require.Empty(t, h.typist.typedTexts())
	require.Equal(t, StatusReady, h.status.lastStatus())
	require.Equal(t, 1, h.recorder.abortCount())
}

func TestToggleCancelOrderingFromIdle(t *testing.T) {
	h := newHarness(t, nil, nil, nil, 0)

	h.ctrl.TogglePressed()
	h.ctrl.CancelPressed()

	require.Eventually(t, func() bool {
		return h.recorder.startCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
	waitForIdle(t, h)

	require.Zero(t, h.engine.callCount())
	require.Equal(t, 1, h.recorder.abortCount())
}

func TestEmptyRecordingNeverReachesEngine(t *testing.T) {
	recorder := &fakeRecorder{frames: 0}
	h := newHarness(t, recorder, nil, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Zero(t, h.engine.callCount())
	require.Equal(t, 1, h.status.errorCount())
	require.Equal(t, StatusReady, h.status.lastStatus())
}

func TestEngineTimeoutSurfacesErrorAndCleansUp(t *testing.T) {
	eng := &fakeEngine{text: "too late", delay: 5 * time.Second}
	h := newHarness(t, nil, eng, nil, 50*time.Millisecond)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Empty(t, h.typist.typedTexts())
	require.Equal(t, 1, h.status.errorCount())
	require.NoFileExists(t, h.recorder.audioPath())
}

func TestEngineFailureReturnsToIdle(t *testing.T) {
	eng := &fakeEngine{err: errors.New("bad exit code")}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Empty(t, h.typist.typedTexts())
	require.Equal(t, 1, h.status.errorCount())
	require.NoFileExists(t, h.recorder.audioPath())
}

func TestWhitespaceTranscriptStillTypesEmptyString(t *testing.T) {
	eng := &fakeEngine{text: "   \t "}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Equal(t, []string{""}, h.typist.typedTexts())
	require.Zero(t, h.status.errorCount())
	require.Equal(t, StatusReady, h.status.lastStatus())
}

func TestInjectionFailureStillReachesIdle(t *testing.T) {
	typist := &fakeTypist{err: errors.New("accessibility permission denied")}
	h := newHarness(t, nil, &fakeEngine{text: "hi"}, typist, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Equal(t, 1, h.status.errorCount())
	require.NoFileExists(t, h.recorder.audioPath())
}

func TestToggleIgnoredWhileTranscribing(t *testing.T) {
	eng := &fakeEngine{text: "slow", delay: 300 * time.Millisecond}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateTranscribing)

	h.ctrl.TogglePressed()
	h.ctrl.CancelPressed()
	waitForIdle(t, h)

	require.Equal(t, 1, h.recorder.startCount(), "no new session may start mid-flight")
	require.Equal(t, 1, h.engine.callCount())
	require.Equal(t, []string{"slow"}, h.typist.typedTexts())
}

func TestDeviceUnavailableStaysIdle(t *testing.T) {
	recorder := &fakeRecorder{startErr: errors.New("microphone busy")}
	h := newHarness(t, recorder, nil, nil, 0)

	h.ctrl.TogglePressed()
	require.Eventually(t, func() bool {
		return h.status.errorCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, fsm.StateIdle, h.ctrl.State())
	require.Zero(t, h.engine.callCount())
}

func TestStaleEngineResultDiscarded(t *testing.T) {
	h := newHarness(t, nil, nil, nil, 0)

	h.ctrl.events <- event{kind: eventEngineResult, sessionID: "long-gone", text: "ghost"}
	h.ctrl.events <- event{kind: eventInjectionDone, sessionID: "long-gone"}

	require.Never(t, func() bool {
		return h.ctrl.State() != fsm.StateIdle || len(h.typist.typedTexts()) > 0
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestShutdownAbortsRecordingAndRemovesArtifacts(t *testing.T) {
	recorder := &fakeRecorder{frames: audio.SampleRate}
	h := newHarness(t, recorder, nil, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)

	h.cancel()
	require.Eventually(t, func() bool {
		return recorder.abortCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestConsecutiveSessionsAfterFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("first run fails")}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	eng.mu.Lock()
	eng.err = nil
	eng.text = "second run works"
	eng.mu.Unlock()

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForIdle(t, h)

	require.Equal(t, []string{"second run works"}, h.typist.typedTexts())
	require.NoFileExists(t, h.recorder.audioPath())
}
