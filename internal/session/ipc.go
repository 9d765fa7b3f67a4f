package session

import (
	"context"
	"fmt"

	"github.com/theianchan/talk-local/internal/fsm"
	"github.com/theianchan/talk-local/internal/ipc"
)

// Handle serves control-socket commands by enqueueing controller events.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status"}
	case "toggle":
		state := c.State()
		if state == fsm.StateTranscribing || state == fsm.StateTyping {
			return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("session busy in state %s", state)}
		}
		c.TogglePressed()
		return ipc.Response{OK: true, State: string(state), Message: "toggle requested"}
	case "cancel":
		state := c.State()
		if state != fsm.StateRecording {
			return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
		}
		c.CancelPressed()
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}
