package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/immuno/internal/game"
)

func testHandler(rules game.Rules) *Handler {
	cards := make([]game.Card, 10)
	for i := range cards {
		cards[i] = game.Macrophage()
	}
	sc := &game.Scenario{
		Decks:     []game.NamedDeck{{Name: "Phagocytes", Cards: cards}},
		Pathogens: []*game.PathogenTemplate{game.NewPathogenTemplate("Germ", 12, 0, 1, 2)},
		Shop:      []game.Card{game.VitaminC()},
	}
	return NewHandler(sc, rules)
}

func untimedRules() game.Rules {
	r := game.DefaultRules()
	r.TurnDuration = 0
	return r
}

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, fn toolHandler, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := fn(context.Background(), newCallToolRequest(name, args))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decode(t *testing.T, result *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	return resp
}

func TestListDecks(t *testing.T) {
	h := testHandler(untimedRules())
	text := resultText(t, call(t, h.handleListDecks, "list_decks", nil))
	assert.Contains(t, text, "1) Phagocytes (10 cards)")
	assert.Contains(t, text, "Germ: 12 HP")
	assert.Contains(t, text, "Vitamin C (2 tokens)")
}

func TestStartGame_Validation(t *testing.T) {
	h := testHandler(untimedRules())

	assert.True(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 0}).IsError)
	assert.True(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 2}).IsError)
	assert.True(t, call(t, h.handleTakeAction, "take_action", map[string]any{"index": 0}).IsError)
	assert.True(t, call(t, h.handleGetGameState, "get_game_state", nil).IsError)
	assert.True(t, call(t, h.handleAbandonGame, "abandon_game", nil).IsError)
}

func TestPlayToVictory(t *testing.T) {
	h := testHandler(untimedRules())

	resp := decode(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 1, "seed": 5}))
	assert.NotEmpty(t, resp.GameID)
	assert.Equal(t, "Phagocytes", resp.Deck)
	require.NotNil(t, resp.Pending)
	require.NotNil(t, resp.State)
	assert.Equal(t, 12, resp.State.Pathogens[0].HP)
	assert.NotEmpty(t, resp.Events)

	// A second game cannot start while one is running.
	assert.True(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 1}).IsError)
	// Out-of-range index is refused without consuming the decision.
	assert.True(t, call(t, h.handleTakeAction, "take_action", map[string]any{"index": 42}).IsError)

	state := decode(t, call(t, h.handleGetGameState, "get_game_state", nil))
	require.NotNil(t, state.Pending)
	assert.Equal(t, resp.Pending.Actions, state.Pending.Actions)

	resp = decode(t, call(t, h.handleTakeAction, "take_action", map[string]any{"index": 0}))
	require.False(t, resp.GameOver)
	assert.Equal(t, 6, resp.State.Pathogens[0].HP)

	resp = decode(t, call(t, h.handleTakeAction, "take_action", map[string]any{"index": 0}))
	assert.True(t, resp.GameOver)
	assert.Equal(t, "Victory", resp.Outcome)
	assert.Nil(t, resp.Pending)

	var sawDefeat bool
	for _, ev := range resp.Events {
		if ev.Type == "PathogenDefeated" && ev.Pathogen == "Germ" {
			sawDefeat = true
		}
	}
	assert.True(t, sawDefeat, "expected a PathogenDefeated event")

	// The slot is free again.
	resp = decode(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 1}))
	assert.False(t, resp.GameOver)
	call(t, h.handleAbandonGame, "abandon_game", nil)
}

func TestAbandonGame(t *testing.T) {
	h := testHandler(untimedRules())
	decode(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 1}))

	result := call(t, h.handleAbandonGame, "abandon_game", nil)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "abandoned")
	assert.True(t, call(t, h.handleGetGameState, "get_game_state", nil).IsError)
}

func TestTimerExpiryDropsLateAnswer(t *testing.T) {
	rules := untimedRules()
	rules.TurnDuration = 20 * time.Millisecond
	rules.MaxTurns = 1
	h := testHandler(rules)

	resp := decode(t, call(t, h.handleStartGame, "start_game", map[string]any{"deck": 1}))
	require.NotNil(t, resp.Pending)

	time.Sleep(200 * time.Millisecond)

	resp = decode(t, call(t, h.handleTakeAction, "take_action", map[string]any{"index": 0}))
	assert.True(t, resp.GameOver)
	assert.Equal(t, "Defeat", resp.Outcome)
	assert.NotEmpty(t, resp.Notice)
	for _, ev := range resp.Events {
		assert.NotEqual(t, "CardPlayed", ev.Type, "late answer must not be played")
	}
}

func TestController_IgnoresOutOfRangeAnswer(t *testing.T) {
	h := testHandler(untimedRules())
	sess, err := NewGameSession(h.Scenario, untimedRules(), 1, 3)
	require.NoError(t, err)
	defer sess.Abandon()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	first, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	pending := sess.currentPending
	require.Equal(t, DecisionChooseAction, pending.Type)

	sess.ctrl.respond(ActionResponse{Seq: pending.Seq, Index: len(pending.Actions) + 5})

	quiet, stop := context.WithTimeout(ctx, 100*time.Millisecond)
	defer stop()
	_, err = sess.waitForPending(quiet)
	require.ErrorIs(t, err, context.DeadlineExceeded, "a bad index must not be applied")
	assert.Equal(t, 0, first.State.CardsPlayed)
	assert.Same(t, pending, sess.currentPending)

	sess.ctrl.respond(ActionResponse{Seq: pending.Seq, Index: 0})
	next, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.State.CardsPlayed)
	assert.NotEmpty(t, next.Events)
}
