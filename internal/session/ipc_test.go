package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theianchan/talk-local/internal/fsm"
	"github.com/theianchan/talk-local/internal/ipc"
)

func TestHandleStatusAndUnknownCommand(t *testing.T) {
	h := newHarness(t, nil, nil, nil, 0)

	status := h.ctrl.Handle(context.Background(), ipc.Request{Command: "status"})
	require.True(t, status.OK)
	require.Equal(t, string(fsm.StateIdle), status.State)

	unknown := h.ctrl.Handle(context.Background(), ipc.Request{Command: "definitely-unknown"})
	require.False(t, unknown.OK)
	require.Contains(t, unknown.Error, "unknown command")
}

func TestHandleCancelGuardedByState(t *testing.T) {
	h := newHarness(t, nil, nil, nil, 0)

	cancelFromIdle := h.ctrl.Handle(context.Background(), ipc.Request{Command: "cancel"})
	require.False(t, cancelFromIdle.OK)
	require.Contains(t, cancelFromIdle.Error, "cannot cancel from state idle")

	toggle := h.ctrl.Handle(context.Background(), ipc.Request{Command: "toggle"})
	require.True(t, toggle.OK)
	waitForState(t, h.ctrl, fsm.StateRecording)

	cancelFromRecording := h.ctrl.Handle(context.Background(), ipc.Request{Command: "cancel"})
	require.True(t, cancelFromRecording.OK)
	waitForIdle(t, h)
	require.Zero(t, h.engine.callCount())
}

func TestHandleToggleRejectedWhileBusy(t *testing.T) {
	eng := &fakeEngine{text: "slow", delay: 300 * time.Millisecond}
	h := newHarness(t, nil, eng, nil, 0)

	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateRecording)
	h.ctrl.TogglePressed()
	waitForState(t, h.ctrl, fsm.StateTranscribing)

	resp := h.ctrl.Handle(context.Background(), ipc.Request{Command: "toggle"})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "busy")

	waitForIdle(t, h)
}
