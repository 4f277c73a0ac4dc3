package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/immuno/internal/game"
)

// Handler serves the game tools. One game runs at a time per process.
type Handler struct {
	Scenario *game.Scenario
	Rules    game.Rules

	mu      sync.Mutex // serialises tool calls
	session *GameSession
}

// NewHandler creates a tool handler for the given scenario and rules.
func NewHandler(sc *game.Scenario, rules game.Rules) *Handler {
	return &Handler{Scenario: sc, Rules: rules}
}

// RegisterTools adds all game tools to the MCP server.
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(listDecksTool(), h.handleListDecks)
	s.AddTool(startGameTool(), h.handleStartGame)
	s.AddTool(takeActionTool(), h.handleTakeAction)
	s.AddTool(getGameStateTool(), h.handleGetGameState)
	s.AddTool(abandonGameTool(), h.handleAbandonGame)
}

// --- Tool definitions ---

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the decks available to start_game, the pathogen lineup and the shop."),
	)
}

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new immune-defense game. Returns the initial state and the first pending decision. "+
			"Play cards against the targeted pathogen, buy items with tokens, and end your turn to let the pathogens act."),
		mcp.WithNumber("deck", mcp.Required(), mcp.Description("Deck number (1-indexed, see list_decks)")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible game (0 or omitted for random)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Returns the events it caused and the next decision."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func abandonGameTool() mcp.Tool {
	return mcp.NewTool("abandon_game",
		mcp.WithDescription("Stop the running game so a new one can be started."),
	)
}

// --- Tool handlers ---

func (h *Handler) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("Decks:\n")
	for i, d := range h.Scenario.Decks {
		fmt.Fprintf(&sb, "  %d) %s (%d cards)\n", i+1, d.Name, len(d.Cards))
	}
	sb.WriteString("Pathogens, in order of arrival:\n")
	for _, p := range h.Scenario.Pathogens {
		fmt.Fprintf(&sb, "  - %s: %d HP, attacks for %d every %d turn(s), reward %d\n",
			p.Name, p.MaxHP, p.AttackPower, p.AttackInterval, p.Reward)
	}
	if len(h.Scenario.Shop) > 0 {
		sb.WriteString("Shop:\n")
		for _, c := range h.Scenario.Shop {
			fmt.Fprintf(&sb, "  - %s (%d tokens): %s\n", c.Name, c.Cost, c.Summary())
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (h *Handler) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		return mcp.NewToolResultError("A game is already running. Finish it or use abandon_game first."), nil
	}

	deck := request.GetInt("deck", 0)
	if deck < 1 || deck > len(h.Scenario.Decks) {
		return mcp.NewToolResultErrorf("deck must be between 1 and %d", len(h.Scenario.Decks)), nil
	}
	seed := int64(request.GetInt("seed", 0))

	sess, err := NewGameSession(h.Scenario, h.Rules, deck, seed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	h.session = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	h.finishIfOver(resp)

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := h.session
	pending := sess.currentPending
	if pending == nil || pending.Type != DecisionChooseAction {
		return mcp.NewToolResultError("No pending decision."), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	sess.ctrl.respond(ActionResponse{Seq: pending.Seq, Index: index})

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	h.finishIfOver(resp)

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(h.session.response())), nil
}

func (h *Handler) handleAbandonGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	h.session.Abandon()
	id := h.session.ID
	h.session = nil
	return mcp.NewToolResultText(fmt.Sprintf("Game %s abandoned.", id)), nil
}

// finishIfOver frees the slot for a new game once the current one has ended.
func (h *Handler) finishIfOver(resp *ToolResponse) {
	if resp.GameOver {
		h.session = nil
	}
}
