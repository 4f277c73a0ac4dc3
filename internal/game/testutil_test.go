package game

import (
	"context"
	"testing"
	"time"

	"github.com/peterkuimelis/immuno/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive a match.
type ScriptedController struct {
	t       *testing.T
	actions []ScriptedAction
	pos     int
	clock   *fakeClock
}

type ScriptedAction struct {
	// Match by ActionType: picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: advance the fake clock before answering
	Think time.Duration
}

func NewScriptedController(t *testing.T) *ScriptedController {
	return &ScriptedController{t: t}
}

func (sc *ScriptedController) WithClock(c *fakeClock) *ScriptedController {
	sc.clock = c
	return sc
}

func (sc *ScriptedController) AddPlay(cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionPlayCard, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddSlowPlay(cardName string, think time.Duration) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionPlayCard, CardName: cardName, Think: think})
	return sc
}

func (sc *ScriptedController) AddBuy(itemName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionBuyItem, CardName: itemName})
	return sc
}

func (sc *ScriptedController) AddEndTurn() *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionEndTurn})
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, e *Engine, actions []Action) (Action, error) {
	if sc.pos >= len(sc.actions) {
		return endTurnAction(actions), nil
	}

	// Peek at next scripted action; only consume it if it matches an available action.
	// This allows scripts to span multiple turns without needing to explicitly script "EndTurn".
	scripted := sc.actions[sc.pos]
	for _, a := range actions {
		if a.Type != scripted.Type {
			continue
		}
		if scripted.CardName != "" && a.Card.Name != scripted.CardName {
			continue
		}
		sc.pos++
		if scripted.Think > 0 && sc.clock != nil {
			sc.clock.Advance(scripted.Think)
		}
		return a, nil
	}

	return endTurnAction(actions), nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

func endTurnAction(actions []Action) Action {
	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a
		}
	}
	return actions[len(actions)-1]
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// --- Test card helpers ---

func filler() Card {
	return Card{Name: "Filler", Kind: CardDefense, Tag: "filler"}
}

func testAttack(name string, power int) Card {
	return Card{Name: name, Kind: CardAttack, Tag: "test_attack", Power: power}
}

func testInstant(name string, kind EffectKind, value int) Card {
	return Card{Name: name, Kind: CardImmuneInstant, Tag: "test_instant", Effect: ImmuneEffect{Kind: kind, Value: value}}
}

func dummyPathogen(name string, hp, attack, interval int, abilities ...AbilitySpec) *PathogenTemplate {
	return NewPathogenTemplate(name, hp, attack, interval, 0, abilities...)
}

// makePaddedDeck creates a deck with the given cards on top (index 0 drawn first)
// and filler underneath to reach minSize.
func makePaddedDeck(top []Card, minSize int) []Card {
	deck := append([]Card(nil), top...)
	for len(deck) < minSize {
		deck = append(deck, filler())
	}
	return deck
}

// testRules are the default rules with the timer disabled.
func testRules() Rules {
	r := DefaultRules()
	r.TurnDuration = 0
	return r
}

// newTestEngine builds and starts a deterministic engine.
func newTestEngine(t *testing.T, rules Rules, deck []Card, pathogens ...*PathogenTemplate) (*Engine, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	e, err := NewEngine(EngineConfig{
		Rules:     rules,
		Deck:      NewDeck(deck, nil, rules.RecycleDiscards),
		Pathogens: pathogens,
		Shop:      []Card{VaccineBooster(), VitaminC(), GoodSleep(), FaceMask()},
		Logger:    logger,
		Seed:      1,
		NoShuffle: true,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e, logger
}

// mustPlay plays a card by name from the hand at the current target.
func mustPlay(t *testing.T, e *Engine, name string) {
	t.Helper()
	for _, c := range e.PlayerHand() {
		if c.Name == name {
			if err := e.PlayCard(c, 0); err != nil {
				t.Fatalf("PlayCard(%s): %v", name, err)
			}
			return
		}
	}
	t.Fatalf("%s not in hand: %v", name, e.PlayerHand())
}

func mustEndTurn(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.EndPlayerTurn(); err != nil {
		t.Fatalf("EndPlayerTurn: %v", err)
	}
}

func pathogenHP(t *testing.T, e *Engine) int {
	t.Helper()
	active := e.ActivePathogens()
	if len(active) == 0 {
		t.Fatal("no active pathogen")
	}
	return active[0].HP
}

// runMatch runs a match to completion and returns the engine and logger for inspection.
func runMatch(t *testing.T, cfg MatchConfig, pc PlayerController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true
	cfg.Seed = 1

	m, err := NewMatch(cfg, pc)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	outcome, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	t.Logf("Match result: %s (%s)", outcome, m.Engine.Result())
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
	return m, logger
}
