package net

import (
	"github.com/peterkuimelis/immuno/internal/game"
	"github.com/peterkuimelis/immuno/internal/log"
)

// Message types for the JSON protocol over TCP. One JSON object per line.
const (
	MsgJoin         = "join"          // client → server, first message
	MsgAction       = "action"        // client → server, answer to choose_action
	MsgWelcome      = "welcome"       // server → client, game accepted
	MsgNotify       = "notify"        // server → client, one game event
	MsgChooseAction = "choose_action" // server → client, prompt
	MsgGameOver     = "game_over"     // server → client, last message
	MsgError        = "error"         // server → client, request refused
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "welcome"
	GameID string `json:"game_id,omitempty"`
	Deck   string `json:"deck,omitempty"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action". Seq must be echoed back; answers to older prompts are ignored.
	Seq     int          `json:"seq,omitempty"`
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "game_over"
	Outcome string `json:"outcome,omitempty"`
	Result  string `json:"result,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq      int    `json:"seq"`
	Turn     int    `json:"turn"`
	Phase    string `json:"phase"`
	Type     string `json:"type"`
	Card     string `json:"card,omitempty"`
	Pathogen string `json:"pathogen,omitempty"`
	Value    int    `json:"value,omitempty"`
	Details  string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// CardView describes a card in hand, in the field or in the shop.
type CardView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
	Cost    int    `json:"cost,omitempty"`
	Blocked bool   `json:"blocked,omitempty"`
}

// PathogenView describes an active pathogen.
type PathogenView struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Attack   int      `json:"attack"`
	Targeted bool     `json:"targeted,omitempty"`
	Blocks   []string `json:"blocks,omitempty"`
}

// PlayerView shows the player's side of the board.
type PlayerView struct {
	HP             int        `json:"hp"`
	MaxHP          int        `json:"max_hp"`
	FlatDefense    int        `json:"flat_defense"`
	PercentDefense int        `json:"percent_defense"`
	Tokens         int        `json:"tokens"`
	Hand           []CardView `json:"hand"`
	DeckCount      int        `json:"deck_count"`
	Boosted        bool       `json:"boosted,omitempty"`
}

// StateView is everything the player can see.
type StateView struct {
	Turn         int            `json:"turn"`
	Phase        string         `json:"phase"`
	Player       PlayerView     `json:"player"`
	Pathogens    []PathogenView `json:"pathogens"`
	Remaining    int            `json:"pathogens_remaining"`
	Field        []CardView     `json:"field,omitempty"`
	CardsPlayed  int            `json:"cards_played"`
	CardsPerTurn int            `json:"cards_per_turn"`
	TimeLeftMS   int64          `json:"time_left_ms,omitempty"`
	Shop         []CardView     `json:"shop,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action"
	Index int `json:"index"`
	Seq   int `json:"seq,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int   `json:"deck_number,omitempty"`
	Seed       int64 `json:"seed,omitempty"`
}

// BuildStateView creates a StateView from the engine's queries.
func BuildStateView(e *game.Engine) *StateView {
	stats := e.PlayerStats()
	sv := &StateView{
		Turn:  e.TurnNumber(),
		Phase: e.Phase().String(),
		Player: PlayerView{
			HP:             stats.HP,
			MaxHP:          stats.MaxHP,
			FlatDefense:    stats.FlatDefense,
			PercentDefense: stats.PercentDefense,
			Tokens:         stats.Tokens,
			DeckCount:      e.DeckCount(),
			Boosted:        e.Boosted(),
		},
		Remaining:    e.PathogensRemaining(),
		CardsPlayed:  e.CardsPlayedThisTurn(),
		CardsPerTurn: e.Rules().CardsPerTurn,
		TimeLeftMS:   e.TimeRemaining().Milliseconds(),
	}

	for _, c := range e.PlayerHand() {
		cv := NewCardView(c)
		cv.Blocked = e.IsCardBlocked(c.Kind)
		sv.Player.Hand = append(sv.Player.Hand, cv)
	}
	for _, p := range e.ActivePathogens() {
		pv := PathogenView{
			ID:       p.ID,
			Name:     p.Name,
			HP:       p.HP,
			MaxHP:    p.MaxHP,
			Attack:   p.AttackPower,
			Targeted: p.Targeted,
		}
		for _, k := range p.BlockedKinds {
			pv.Blocks = append(pv.Blocks, k.String())
		}
		sv.Pathogens = append(sv.Pathogens, pv)
	}
	for _, c := range e.Field() {
		sv.Field = append(sv.Field, NewCardView(c))
	}
	for _, c := range e.Shop() {
		sv.Shop = append(sv.Shop, NewCardView(c))
	}
	return sv
}

// NewCardView converts a card for the wire.
func NewCardView(c game.Card) CardView {
	cv := CardView{Name: c.Name, Kind: c.Kind.String(), Summary: c.Summary()}
	if c.Kind == game.CardItem {
		cv.Cost = c.Cost
	}
	return cv
}

// NewActionViews numbers the actions for the wire.
func NewActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Type: a.Type.String(), Desc: a.String()})
	}
	return views
}

// NewEventView converts a logged event for the wire.
func NewEventView(ev log.GameEvent) EventView {
	return EventView{
		Seq:      ev.Seq,
		Turn:     ev.Turn,
		Phase:    ev.Phase,
		Type:     ev.Type.String(),
		Card:     ev.Card,
		Pathogen: ev.Pathogen,
		Value:    ev.Value,
		Details:  ev.Details,
	}
}
