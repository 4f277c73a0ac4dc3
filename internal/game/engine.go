package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/peterkuimelis/immuno/internal/log"
)

// Rejection reasons. A rejected call leaves the game unchanged.
var (
	ErrWrongPhase         = errors.New("not the player turn")
	ErrLocked             = errors.New("engine busy")
	ErrNotInHand          = errors.New("card not in hand")
	ErrCardBlocked        = errors.New("card kind is blocked")
	ErrCardLimit          = errors.New("card limit reached this turn")
	ErrFieldFull          = errors.New("combo field is full")
	ErrNoTarget           = errors.New("no pathogen to target")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrGameOver           = errors.New("game is over")
	ErrInsufficientTokens = errors.New("not enough tokens")
	ErrHandFull           = errors.New("hand is full")
	ErrUnknownItem        = errors.New("item not sold in shop")
	ErrAlreadyStarted     = errors.New("game already started")
)

// EngineConfig holds everything needed to assemble a game.
type EngineConfig struct {
	Rules     Rules // zero value means DefaultRules()
	Deck      DeckProvider
	Pathogens []*PathogenTemplate
	Shop      []Card
	Logger    log.EventLogger
	Seed      int64 // RNG seed (0 for random)
	NoShuffle bool  // skip deck and backlog shuffle (for deterministic tests)
}

// Engine owns the turn state machine and mediates every change to the game.
type Engine struct {
	rules     Rules
	player    *PlayerState
	deck      DeckProvider
	queue     *PathogenQueue
	combat    *CombatResolver
	combo     *ComboResolver
	scheduler *AbilityScheduler
	timer     *TurnTimer
	shop      []Card
	rng       *rand.Rand
	noShuffle bool

	turn    TurnState
	started bool
	outcome Outcome
	result  string

	logger      log.EventLogger
	subscribers []func(log.GameEvent)
	seq         int

	pendingDeaths []*PathogenInstance
}

// NewEngine assembles an engine. The game does not begin until Start is called.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	rules := cfg.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if cfg.Deck == nil {
		return nil, fmt.Errorf("engine: no deck")
	}
	if len(cfg.Pathogens) == 0 {
		return nil, fmt.Errorf("engine: no pathogens")
	}
	for _, t := range cfg.Pathogens {
		if t == nil {
			return nil, fmt.Errorf("engine: nil pathogen template")
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	if rules.PlayerMaxHP <= 0 || rules.HandCapacity <= 0 || rules.CardsPerTurn <= 0 {
		return nil, fmt.Errorf("engine: player max HP, hand capacity and cards per turn must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		rules:     rules,
		player:    NewPlayerState(rules.PlayerMaxHP, rules.HandCapacity, rules.StartingTokens),
		deck:      cfg.Deck,
		queue:     NewPathogenQueue(cfg.Pathogens, rules.ActiveSlots),
		timer:     NewTurnTimer(rules.TurnDuration),
		shop:      append([]Card(nil), cfg.Shop...),
		rng:       rand.New(rand.NewSource(seed)),
		noShuffle: cfg.NoShuffle,
		logger:    logger,
	}
	e.combat = NewCombatResolver(e.onDeath)
	e.combo = NewComboResolver(e.combat, NewField(rules.FieldCapacity))
	e.scheduler = NewAbilityScheduler(e.combat)

	if d, ok := cfg.Deck.(*Deck); ok && d.OnRefill == nil {
		d.OnRefill = func(n int) {
			t, ph := e.at()
			e.publish(log.NewShuffleEvent(t, ph, n))
		}
	}
	return e, nil
}

// Subscribe registers a callback invoked synchronously for every event, after the logger.
func (e *Engine) Subscribe(fn func(log.GameEvent)) {
	e.subscribers = append(e.subscribers, fn)
}

// Start shuffles, fills the active pathogen slots and begins turn 1.
func (e *Engine) Start() error {
	if e.turn.Locked {
		return ErrLocked
	}
	if e.started {
		return e.reject("", ErrAlreadyStarted)
	}
	defer e.lock()()
	e.started = true

	if !e.noShuffle {
		e.queue.Shuffle(e.rng)
		e.deck.ShuffleRemaining()
	}
	for _, inst := range e.queue.Fill() {
		e.publish(log.NewPathogenSpawnedEvent(0, PhaseNone.String(), inst.Label(), inst.HP))
	}

	e.turn.Turn = 1
	e.startPlayerTurn()
	return nil
}

// PlayCard plays the first hand card equal to card. targetID 0 keeps the current target.
func (e *Engine) PlayCard(card Card, targetID int) error {
	if err := e.checkPlay(card, targetID); err != nil {
		return e.reject(card.Name, err)
	}
	defer e.lock()()
	e.playCard(card, targetID)
	return nil
}

// PlayFromHand plays the card at the given hand position.
func (e *Engine) PlayFromHand(index, targetID int) error {
	if index < 0 || index >= len(e.player.Hand) {
		return e.reject("", fmt.Errorf("hand index %d: %w", index, ErrNotInHand))
	}
	return e.PlayCard(e.player.Hand[index], targetID)
}

// EndPlayerTurn settles combos and runs the pathogen turn.
func (e *Engine) EndPlayerTurn() error {
	if err := e.checkTurn(); err != nil {
		return e.reject("", err)
	}
	defer e.lock()()
	e.endPlayerTurn()
	return nil
}

// Tick advances the turn countdown. Expiry ends the player turn once.
func (e *Engine) Tick(elapsed time.Duration) error {
	if err := e.checkTurn(); err != nil {
		return err
	}
	defer e.lock()()
	if e.timer.Advance(elapsed) {
		t, ph := e.at()
		e.publish(log.NewTimerExpiredEvent(t, ph))
		e.endPlayerTurn()
	}
	return nil
}

// Purchase buys a shop item into the hand. It does not count as a played card.
func (e *Engine) Purchase(name string) error {
	if err := e.checkTurn(); err != nil {
		return e.reject(name, err)
	}
	item, ok := e.findShopItem(name)
	if !ok {
		return e.reject(name, fmt.Errorf("%q: %w", name, ErrUnknownItem))
	}
	if e.player.FreeHandSlots() == 0 {
		return e.reject(item.Name, ErrHandFull)
	}
	if e.player.Tokens < item.Cost {
		return e.reject(item.Name, fmt.Errorf("%s costs %d, have %d: %w", item.Name, item.Cost, e.player.Tokens, ErrInsufficientTokens))
	}
	defer e.lock()()

	e.combat.SpendTokens(e.player, item.Cost)
	e.player.AddToHand(item)
	t, ph := e.at()
	e.publish(log.NewPurchaseEvent(t, ph, item.Name, item.Cost))
	if item.Cost > 0 {
		e.publish(log.NewTokensEvent(t, ph, -item.Cost, e.player.Tokens, "bought "+item.Name))
	}
	e.publishStats()
	return nil
}

// --- Guards ---

func (e *Engine) lock() (unlock func()) {
	e.turn.Locked = true
	return func() { e.turn.Locked = false }
}

func (e *Engine) checkTurn() error {
	switch {
	case e.turn.Locked:
		return ErrLocked
	case e.outcome != OutcomeNone:
		return ErrGameOver
	case e.turn.Phase != PhasePlayerTurn:
		return ErrWrongPhase
	}
	return nil
}

func (e *Engine) checkPlay(card Card, targetID int) error {
	if err := e.checkTurn(); err != nil {
		return err
	}
	if e.player.HandIndex(card) < 0 {
		return ErrNotInHand
	}
	if e.queue.IsCardBlocked(card.Kind) {
		return fmt.Errorf("%s cards: %w", card.Kind, ErrCardBlocked)
	}
	if e.turn.CardsPlayed >= e.rules.CardsPerTurn {
		return ErrCardLimit
	}
	target := e.queue.Target()
	if targetID != 0 {
		target = e.queue.Get(targetID)
		if target == nil {
			return fmt.Errorf("pathogen #%d: %w", targetID, ErrUnknownTarget)
		}
	}
	if card.NeedsTarget() && target == nil {
		return ErrNoTarget
	}
	return e.combo.Admit(card, e.player.Played)
}

// reject logs a refused call. Calls made mid-transition fail silently so that a
// subscriber calling back into the engine is not notified again.
func (e *Engine) reject(card string, err error) error {
	if errors.Is(err, ErrLocked) {
		return err
	}
	t, ph := e.at()
	e.publish(log.NewRejectedEvent(t, ph, card, err.Error()))
	return err
}

// --- Transitions (callers hold the lock) ---

func (e *Engine) startPlayerTurn() {
	e.turn.Phase = PhasePlayerTurn
	e.turn.endedThisTurn = false
	e.combat.ResetDefense(e.player)
	e.discard(e.player.ClearPlayed())
	e.combo.BeginTurn()

	t, ph := e.at()
	e.publish(log.NewTurnEvent(t, ph))
	e.publish(log.NewPhaseChangeEvent(t, ph))

	n := e.turn.LastTurnPlayed
	if e.turn.Turn == 1 {
		n = e.rules.InitialDraw
	}
	e.draw(n)

	e.turn.CardsPlayed = 0
	e.timer.Start()
	e.publishStats()
}

func (e *Engine) playCard(card Card, targetID int) {
	t, ph := e.at()
	if targetID != 0 && targetID != e.targetID() {
		e.queue.SetTarget(targetID)
		e.publish(log.NewTargetChangedEvent(t, ph, e.queue.Target().Label()))
	}

	e.player.RemoveFromHand(card)
	e.player.Played = append(e.player.Played, card)
	e.turn.CardsPlayed++

	targetName := ""
	if card.NeedsTarget() {
		targetName = e.queue.Target().Label()
	}
	e.publish(log.NewCardPlayedEvent(t, ph, card.Name, targetName))

	e.combo.Resolve(card, e.playContext())
	e.publishStats()

	if e.checkWinConditions() {
		return
	}
	if e.turn.CardsPlayed >= e.rules.CardsPerTurn || e.timer.Expired() {
		e.endPlayerTurn()
	}
}

func (e *Engine) endPlayerTurn() {
	if e.turn.endedThisTurn || e.turn.Phase != PhasePlayerTurn {
		return
	}
	e.turn.endedThisTurn = true
	e.timer.Stop()

	e.combo.Settle(e.playContext())
	e.turn.LastTurnPlayed = e.turn.CardsPlayed

	if e.checkWinConditions() {
		return
	}
	e.pathogenTurn()
}

func (e *Engine) pathogenTurn() {
	e.turn.Phase = PhasePathogenTurn
	t, ph := e.at()
	e.publish(log.NewPhaseChangeEvent(t, ph))

	for _, p := range e.queue.Active() {
		if !p.Alive() {
			continue
		}
		p.BeginTurn()
		hp := p.HP
		for _, act := range e.scheduler.Schedule(p) {
			ev := log.NewAbilityEvent(t, ph, p.Label(), act.Kind.String(), act.Value)
			if act.Kind == AbilityBlockCards {
				ev.Details = fmt.Sprintf("%s blocks %s cards", p.Label(), joinKinds(act.Kinds))
			}
			e.publish(ev)
			if act.Healed && act.Value > 0 {
				e.publish(log.NewHealEvent(t, ph, p.Label(), act.Value, hp, hp+act.Value))
				hp += act.Value
			}
		}

		if p.CanAttackThisTurn {
			power := p.AttackPower()
			e.publish(log.NewAttackEvent(t, ph, p.Label(), power))
			res := e.combat.ApplyDamage(e.player, power)
			e.publish(log.NewDamageEvent(t, ph, e.player.Label(), res.Nominal, res.Actual, res.OldHP, res.NewHP))
			e.publishStats()
		}
		if !e.player.Alive() {
			break
		}
	}

	e.turn.Turn++
	if e.checkWinConditions() {
		return
	}
	e.startPlayerTurn()
}

// checkWinConditions ends the game if it is decided. It reports whether the game is over.
func (e *Engine) checkWinConditions() bool {
	if e.outcome != OutcomeNone {
		return true
	}
	switch {
	case !e.player.Alive():
		e.gameOver(OutcomeDefeat, "the infection overwhelmed the body")
	case e.queue.Cleared():
		e.gameOver(OutcomeVictory, "every pathogen was defeated")
	case e.rules.MaxTurns > 0 && e.turn.Turn > e.rules.MaxTurns:
		e.gameOver(OutcomeDefeat, fmt.Sprintf("the infection outlasted %d turns", e.rules.MaxTurns))
	default:
		return false
	}
	return true
}

func (e *Engine) gameOver(outcome Outcome, reason string) {
	e.outcome = outcome
	e.result = fmt.Sprintf("%s: %s", outcome, reason)
	e.turn.Phase = PhaseGameOver
	e.timer.Stop()
	t, ph := e.at()
	e.publish(log.NewPhaseChangeEvent(t, ph))
	e.publish(log.NewGameOverEvent(t, ph, outcome.String(), reason))
}

// --- Resolution plumbing ---

func (e *Engine) playContext() *PlayContext {
	return &PlayContext{
		Player: e.player,
		Target: e.queue.Target,
		Played: e.player.Played,
		Draw:   e.draw,
		Report: e.report,
	}
}

// draw moves up to n cards into the hand, limited by free slots and the deck.
func (e *Engine) draw(n int) []Card {
	if free := e.player.FreeHandSlots(); n > free {
		n = free
	}
	var drawn []Card
	for i := 0; i < n; i++ {
		card, ok := e.deck.DrawCard()
		if !ok {
			break
		}
		e.player.Hand = append(e.player.Hand, card)
		drawn = append(drawn, card)
		t, ph := e.at()
		e.publish(log.NewDrawEvent(t, ph, card.Name))
	}
	return drawn
}

func (e *Engine) discard(cards []Card) {
	if len(cards) == 0 {
		return
	}
	if d, ok := e.deck.(Discarder); ok {
		d.Discard(cards...)
		return
	}
	e.player.Discard = append(e.player.Discard, cards...)
}

func (e *Engine) onDeath(c Combatant) {
	if p, ok := c.(*PathogenInstance); ok {
		e.pendingDeaths = append(e.pendingDeaths, p)
	}
}

// report turns a resolver outcome into events, then settles any pathogen that died.
func (e *Engine) report(o EffectOutcome) {
	t, ph := e.at()
	switch o.Kind {
	case OutcomeDamage:
		e.publish(log.NewDamageEvent(t, ph, o.Target.Label(), o.Damage.Nominal, o.Damage.Actual, o.Damage.OldHP, o.Damage.NewHP))
	case OutcomeHeal:
		e.publish(log.NewHealEvent(t, ph, e.player.Label(), o.Amount, o.Damage.OldHP, o.Damage.NewHP))
	case OutcomeDefense:
		e.publish(log.NewDefenseEvent(t, ph, o.Card.Name, e.player.FlatDefense, e.player.PercentDefense))
	case OutcomeBoostPrimed:
		e.publish(log.NewBoostEvent(t, ph, o.Card.Name, false))
	case OutcomeBoostUsed:
		e.publish(log.NewBoostEvent(t, ph, o.Card.Name, true))
	case OutcomeComboPending:
		e.publish(log.NewComboPendingEvent(t, ph, o.Card.Name, o.Card.Partner))
	case OutcomeComboActivated:
		e.publish(log.NewComboActivatedEvent(t, ph, o.Card.Name, o.Partner))
	case OutcomeComboDiscarded:
		e.publish(log.NewComboDiscardedEvent(t, ph, o.Card.Name))
	case OutcomeDraw, OutcomeNoEffect:
		// draws are published by draw; nothing happened otherwise
	}
	e.flushDeaths()
}

func (e *Engine) flushDeaths() {
	for len(e.pendingDeaths) > 0 {
		p := e.pendingDeaths[0]
		e.pendingDeaths = e.pendingDeaths[1:]

		t, ph := e.at()
		reward := p.Template.Reward
		e.combat.GrantTokens(e.player, reward)
		e.publish(log.NewPathogenDefeatedEvent(t, ph, p.Label(), reward))
		if reward > 0 {
			e.publish(log.NewTokensEvent(t, ph, reward, e.player.Tokens, "defeated "+p.Label()))
		}

		_, spawned := e.queue.Remove(p)
		if spawned != nil {
			e.publish(log.NewPathogenSpawnedEvent(t, ph, spawned.Label(), spawned.HP))
		} else if target := e.queue.Target(); target != nil {
			e.publish(log.NewTargetChangedEvent(t, ph, target.Label()))
		}
	}
}

func (e *Engine) publish(ev log.GameEvent) {
	e.seq++
	ev.Seq = e.seq
	e.logger.Log(ev)
	for _, fn := range e.subscribers {
		fn(ev)
	}
}

func (e *Engine) publishStats() {
	t, ph := e.at()
	p := e.player
	e.publish(log.NewStatsEvent(t, ph, p.HP, p.MaxHP, p.FlatDefense, p.PercentDefense, p.Tokens))
}

func (e *Engine) at() (int, string) {
	return e.turn.Turn, e.turn.Phase.String()
}

func (e *Engine) targetID() int {
	if t := e.queue.Target(); t != nil {
		return t.ID
	}
	return 0
}

func (e *Engine) findShopItem(name string) (Card, bool) {
	for _, c := range e.shop {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Card{}, false
}

func joinKinds(kinds []CardKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// --- Queries ---

func (e *Engine) Phase() Phase { return e.turn.Phase }

func (e *Engine) TurnNumber() int { return e.turn.Turn }

func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) PlayerStats() PlayerStats { return e.player.Stats() }

func (e *Engine) CardsPlayedThisTurn() int { return e.turn.CardsPlayed }

func (e *Engine) TimeRemaining() time.Duration { return e.timer.Remaining() }

func (e *Engine) Outcome() Outcome { return e.outcome }

// Result is a human-readable summary of the outcome, empty while the game runs.
func (e *Engine) Result() string { return e.result }

// IsOver reports whether the game has ended.
func (e *Engine) IsOver() bool { return e.outcome != OutcomeNone }

// Boosted reports whether a boost is waiting for the next non-item card.
func (e *Engine) Boosted() bool { return e.combo.Boosted() }

// IsCardBlocked reports whether any active pathogen blocks the card kind.
func (e *Engine) IsCardBlocked(kind CardKind) bool { return e.queue.IsCardBlocked(kind) }

// PlayerHand returns a copy of the hand.
func (e *Engine) PlayerHand() []Card {
	return append([]Card(nil), e.player.Hand...)
}

// Field returns the combo cards on the field this turn.
func (e *Engine) Field() []Card { return e.combo.Field().Cards() }

// Shop returns the items for sale.
func (e *Engine) Shop() []Card {
	return append([]Card(nil), e.shop...)
}

// ActivePathogens returns a snapshot of the active pathogens.
func (e *Engine) ActivePathogens() []PathogenStatus {
	target := e.targetID()
	var out []PathogenStatus
	for _, p := range e.queue.Active() {
		out = append(out, p.Status(p.ID == target))
	}
	return out
}

// TargetID returns the targeted pathogen's ID, or 0.
func (e *Engine) TargetID() int { return e.targetID() }

// PathogensRemaining returns the number of pathogens not yet spawned.
func (e *Engine) PathogensRemaining() int { return e.queue.Remaining() }

// DeckCount returns the cards left to draw, or -1 if the provider cannot say.
func (e *Engine) DeckCount() int {
	if c, ok := e.deck.(interface{ Count() int }); ok {
		return c.Count()
	}
	return -1
}
