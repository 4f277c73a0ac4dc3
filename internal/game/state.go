package game

import "time"

// Rules holds the tunable limits of a game.
type Rules struct {
	PlayerMaxHP     int
	StartingTokens  int
	InitialDraw     int // cards drawn on turn 1
	HandCapacity    int
	CardsPerTurn    int
	FieldCapacity   int // combo cards waiting for a partner
	ActiveSlots     int // pathogens on the board at once
	MaxTurns        int // the player loses once the turn number exceeds this; 0 means no limit
	TurnDuration    time.Duration
	RecycleDiscards bool
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		PlayerMaxHP:     100,
		StartingTokens:  0,
		InitialDraw:     5,
		HandCapacity:    7,
		CardsPerTurn:    3,
		FieldCapacity:   2,
		ActiveSlots:     1,
		MaxTurns:        50,
		TurnDuration:    30 * time.Second,
		RecycleDiscards: true,
	}
}

// PlayerState represents the player's entire state.
type PlayerState struct {
	Vitals
	FlatDefense    int
	PercentDefense int // 0-100, max of grants this turn
	Tokens         int

	Hand         []Card
	Played       []Card // cards played this player turn
	Discard      []Card // kept here when the deck does not take cards back
	HandCapacity int
}

// NewPlayerState creates a full-health player.
func NewPlayerState(maxHP, handCapacity, tokens int) *PlayerState {
	return &PlayerState{
		Vitals:       Vitals{HP: maxHP, MaxHP: maxHP},
		Tokens:       tokens,
		HandCapacity: handCapacity,
	}
}

// Defense implements Combatant.
func (p *PlayerState) Defense() (flat, percent int) {
	return p.FlatDefense, p.PercentDefense
}

// Label implements Combatant.
func (p *PlayerState) Label() string {
	return "Player"
}

// HandCount returns the number of cards in hand.
func (p *PlayerState) HandCount() int {
	return len(p.Hand)
}

// FreeHandSlots returns how many more cards fit in the hand.
func (p *PlayerState) FreeHandSlots() int {
	n := p.HandCapacity - len(p.Hand)
	if n < 0 {
		return 0
	}
	return n
}

// HandIndex returns the position of the first card equal to c, or -1.
func (p *PlayerState) HandIndex(c Card) int {
	for i, h := range p.Hand {
		if h == c {
			return i
		}
	}
	return -1
}

// RemoveFromHand removes the first card equal to c. Returns false if none is held.
func (p *PlayerState) RemoveFromHand(c Card) bool {
	i := p.HandIndex(c)
	if i < 0 {
		return false
	}
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return true
}

// AddToHand appends a card if there is room.
func (p *PlayerState) AddToHand(c Card) bool {
	if p.FreeHandSlots() == 0 {
		return false
	}
	p.Hand = append(p.Hand, c)
	return true
}

// ClearPlayed empties this turn's played cards and returns them.
func (p *PlayerState) ClearPlayed() []Card {
	played := p.Played
	p.Played = nil
	return played
}

// PlayerStats is a read-only snapshot for presentation.
type PlayerStats struct {
	HP             int
	MaxHP          int
	FlatDefense    int
	PercentDefense int
	Tokens         int
	HandCount      int
}

// Stats returns a snapshot of the player's numbers.
func (p *PlayerState) Stats() PlayerStats {
	return PlayerStats{
		HP:             p.HP,
		MaxHP:          p.MaxHP,
		FlatDefense:    p.FlatDefense,
		PercentDefense: p.PercentDefense,
		Tokens:         p.Tokens,
		HandCount:      len(p.Hand),
	}
}

// --- TurnState ---

// TurnState holds the engine-owned turn bookkeeping.
type TurnState struct {
	Phase          Phase
	Turn           int // 1-based turn counter
	CardsPlayed    int // cards played this player turn
	LastTurnPlayed int // cards played during the previous player turn
	Locked         bool

	endedThisTurn bool
}
