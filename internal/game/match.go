package game

import (
	"context"
	"errors"
	"time"

	"github.com/peterkuimelis/immuno/internal/log"
)

// PlayerController is the interface that terminal, network and MCP players implement.
type PlayerController interface {
	// ChooseAction presents the legal actions and waits for the player to pick one.
	// ctx carries the turn deadline when the turn timer is enabled.
	ChooseAction(ctx context.Context, e *Engine, actions []Action) (Action, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Clock supplies wall time to the match loop.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	EngineConfig
	Clock Clock // nil means the system clock
}

// Match drives an engine to completion with a single controller.
type Match struct {
	Engine     *Engine
	Controller PlayerController
	clock      Clock
	ctx        context.Context
}

// NewMatch creates a match from the given config and player controller.
func NewMatch(cfg MatchConfig, pc PlayerController) (*Match, error) {
	e, err := NewEngine(cfg.EngineConfig)
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	m := &Match{
		Engine:     e,
		Controller: pc,
		clock:      clock,
		ctx:        context.Background(),
	}
	e.Subscribe(m.notify)
	return m, nil
}

// Run starts the game and loops until it is decided or ctx is cancelled.
func (m *Match) Run(ctx context.Context) (Outcome, error) {
	m.ctx = ctx
	e := m.Engine

	if err := e.Start(); err != nil {
		return OutcomeNone, err
	}
	for !e.IsOver() {
		if err := ctx.Err(); err != nil {
			return OutcomeNone, err
		}
		if err := m.step(); err != nil {
			return e.Outcome(), err
		}
	}
	return e.Outcome(), nil
}

// step asks the controller for one action and applies it. Time spent choosing is fed to the
// turn timer first; if the timer expires meanwhile the choice is dropped.
func (m *Match) step() error {
	e := m.Engine
	turn := e.TurnNumber()
	actions := e.LegalActions()

	ctx, cancel := m.ctx, context.CancelFunc(func() {})
	remaining := e.TimeRemaining()
	timed := e.rules.TurnDuration > 0
	if timed {
		ctx, cancel = context.WithTimeout(m.ctx, remaining)
	}
	start := m.clock.Now()
	chosen, err := m.Controller.ChooseAction(ctx, e, actions)
	cancel()
	elapsed := m.clock.Now().Sub(start)

	if err != nil {
		if timed && errors.Is(err, context.DeadlineExceeded) && m.ctx.Err() == nil {
			if elapsed < remaining {
				elapsed = remaining
			}
			return e.Tick(elapsed)
		}
		return err
	}

	if err := e.Tick(elapsed); err != nil {
		return err
	}
	if e.TurnNumber() != turn || e.Phase() != PhasePlayerTurn {
		return nil
	}

	if err := e.Apply(chosen); err != nil && !IsRejection(err) {
		return err
	}
	return nil
}

func (m *Match) notify(ev log.GameEvent) {
	// Notification failures never stop the game.
	_ = m.Controller.Notify(m.ctx, ev)
}
