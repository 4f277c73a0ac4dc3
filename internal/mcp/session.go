package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/immuno/internal/game"
	"github.com/peterkuimelis/immuno/internal/log"
	"github.com/peterkuimelis/immuno/internal/net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type    DecisionType     `json:"type"`
	Seq     int              `json:"seq"`
	State   *net.StateView   `json:"state"`
	Actions []net.ActionView `json:"actions,omitempty"`
}

// ActionResponse is sent back from the take_action tool to the controller.
type ActionResponse struct {
	Seq   int
	Index int
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	GameID   string          `json:"game_id"`
	Deck     string          `json:"deck,omitempty"`
	Events   []net.EventView `json:"events"`
	State    *net.StateView  `json:"state,omitempty"`
	Pending  *PendingView    `json:"pending,omitempty"`
	Notice   string          `json:"notice,omitempty"`
	GameOver bool            `json:"game_over"`
	Outcome  string          `json:"outcome,omitempty"`
	Result   string          `json:"result,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type    DecisionType     `json:"type"`
	Actions []net.ActionView `json:"actions,omitempty"`
}

// GameSession holds the state of a single MCP game.
type GameSession struct {
	ID    string
	Deck  string
	match *game.Match
	ctrl  *MCPController

	cancel context.CancelFunc
	done   chan struct{}

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []net.EventView
	gameOver bool
	outcome  game.Outcome
	result   string
}

// NewGameSession builds a match for the chosen deck and starts it in the background.
func NewGameSession(sc *game.Scenario, rules game.Rules, deckNumber int, seed int64) (*GameSession, error) {
	deckName, cards, err := sc.DeckByNumber(deckNumber)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if rules == (game.Rules{}) {
		rules = game.DefaultRules()
	}

	sess := &GameSession{
		ID:        uuid.NewString(),
		Deck:      deckName,
		done:      make(chan struct{}),
		pendingCh: make(chan *PendingDecision, 1),
	}
	sess.ctrl = NewMCPController(sess)

	m, err := game.NewMatch(game.MatchConfig{EngineConfig: game.EngineConfig{
		Rules:     rules,
		Deck:      game.NewDeck(cards, rand.New(rand.NewSource(seed)), rules.RecycleDiscards),
		Pathogens: sc.Pathogens,
		Shop:      sc.Shop,
		Logger:    log.NewMemoryLogger(),
		Seed:      seed,
	}}, sess.ctrl)
	if err != nil {
		return nil, err
	}
	sess.match = m

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go sess.run(ctx)

	return sess, nil
}

func (s *GameSession) run(ctx context.Context) {
	defer close(s.done)

	outcome, err := s.match.Run(ctx)
	result := s.match.Engine.Result()
	switch {
	case errors.Is(err, context.Canceled):
		result = "Game abandoned"
	case err != nil:
		result = fmt.Sprintf("error: %v", err)
	}

	s.mu.Lock()
	s.gameOver = true
	s.outcome = outcome
	s.result = result
	s.mu.Unlock()

	s.publishPending(&PendingDecision{
		Type:  DecisionGameOver,
		State: net.BuildStateView(s.match.Engine),
	})
}

// Abandon stops the game and waits for the match goroutine to exit.
func (s *GameSession) Abandon() {
	s.cancel()
	<-s.done
}

// publishPending replaces any unread decision with p. Only the match goroutine publishes.
func (s *GameSession) publishPending(p *PendingDecision) {
	select {
	case <-s.pendingCh:
	default:
	}
	s.pendingCh <- p
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev net.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []net.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := s.response()
	for _, ev := range resp.Events {
		if ev.Type == log.EventTimerExpired.String() {
			resp.Notice = "The turn timer expired; answers to earlier decisions were dropped."
		}
	}
	return resp, nil
}

// response builds a ToolResponse from the current pending decision and buffered events.
func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{
		GameID: s.ID,
		Deck:   s.Deck,
		Events: s.drainEvents(),
	}
	pending := s.currentPending
	if pending != nil {
		resp.State = pending.State
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		resp.GameOver = true
		resp.Outcome = s.outcome.String()
		resp.Result = s.result
		return resp
	}
	if pending != nil && pending.Type == DecisionChooseAction {
		resp.Pending = &PendingView{Type: pending.Type, Actions: pending.Actions}
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, strings.ReplaceAll(err.Error(), `"`, `'`))
	}
	return string(data)
}
