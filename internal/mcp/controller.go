package mcp

import (
	"context"

	"github.com/peterkuimelis/immuno/internal/game"
	"github.com/peterkuimelis/immuno/internal/log"
	"github.com/peterkuimelis/immuno/internal/net"
)

// MCPController implements game.PlayerController by publishing decisions
// to the session and blocking on a response channel.
type MCPController struct {
	session    *GameSession
	responseCh chan ActionResponse
	seq        int
}

// NewMCPController creates a controller bound to a session.
func NewMCPController(session *GameSession) *MCPController {
	return &MCPController{
		session:    session,
		responseCh: make(chan ActionResponse, 1),
	}
}

// ChooseAction implements game.PlayerController. Responses to earlier decisions and
// out-of-range indexes are discarded.
func (c *MCPController) ChooseAction(ctx context.Context, e *game.Engine, actions []game.Action) (game.Action, error) {
	c.seq++
	pending := &PendingDecision{
		Type:    DecisionChooseAction,
		Seq:     c.seq,
		State:   net.BuildStateView(e),
		Actions: net.NewActionViews(actions),
	}
	c.session.publishPending(pending)

	for {
		select {
		case <-ctx.Done():
			return game.Action{}, ctx.Err()
		case resp := <-c.responseCh:
			if resp.Seq != pending.Seq || resp.Index < 0 || resp.Index >= len(actions) {
				continue
			}
			return actions[resp.Index], nil
		}
	}
}

// respond hands an answer to the waiting ChooseAction, replacing any unread one.
func (c *MCPController) respond(resp ActionResponse) {
	select {
	case <-c.responseCh:
	default:
	}
	c.responseCh <- resp
}

// Notify implements game.PlayerController.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(net.NewEventView(event))
	return nil
}
