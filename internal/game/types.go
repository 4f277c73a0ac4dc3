package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Phase int

const (
	PhaseNone Phase = iota
	PhasePlayerTurn
	PhasePathogenTurn
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlayerTurn:
		return "Player Turn"
	case PhasePathogenTurn:
		return "Pathogen Turn"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "None"
	}
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "Victory"
	case OutcomeDefeat:
		return "Defeat"
	default:
		return "None"
	}
}

// CardKind tags the card variant. Blocking and combo rules match on it.
type CardKind int

const (
	CardAttack CardKind = iota
	CardHeal
	CardDefense
	CardImmuneInstant
	CardImmuneCombo
	CardItem
)

// CardKinds lists every card kind in declaration order.
var CardKinds = []CardKind{CardAttack, CardHeal, CardDefense, CardImmuneInstant, CardImmuneCombo, CardItem}

func (k CardKind) String() string {
	switch k {
	case CardAttack:
		return "attack"
	case CardHeal:
		return "heal"
	case CardDefense:
		return "defense"
	case CardImmuneInstant:
		return "immune_instant"
	case CardImmuneCombo:
		return "immune_combo"
	case CardItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseCardKind is the inverse of CardKind.String.
func ParseCardKind(s string) (CardKind, error) {
	for _, k := range CardKinds {
		if k.String() == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown card kind %q", s)
}

// EffectKind is what an immune card does when it resolves.
type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectHeal
	EffectFlatDefense
	EffectPercentDefense
)

func (k EffectKind) String() string {
	switch k {
	case EffectDamage:
		return "damage"
	case EffectHeal:
		return "heal"
	case EffectFlatDefense:
		return "flat defense"
	case EffectPercentDefense:
		return "percent defense"
	default:
		return "unknown"
	}
}

// ItemKind is what an item card does when it resolves.
type ItemKind int

const (
	ItemBoost ItemKind = iota // doubles the next non-item card
	ItemRestore
	ItemDraw
	ItemShield
)

func (k ItemKind) String() string {
	switch k {
	case ItemBoost:
		return "boost"
	case ItemRestore:
		return "restore"
	case ItemDraw:
		return "draw"
	case ItemShield:
		return "shield"
	default:
		return "unknown"
	}
}

type AbilityKind int

const (
	AbilityBlockCards AbilityKind = iota
	AbilityExtraDamage
	AbilityRegeneration
	AbilityMutation
)

// AbilityKinds is the order in which abilities are evaluated each pathogen turn.
var AbilityKinds = []AbilityKind{AbilityBlockCards, AbilityExtraDamage, AbilityRegeneration, AbilityMutation}

func (k AbilityKind) String() string {
	switch k {
	case AbilityBlockCards:
		return "block_cards"
	case AbilityExtraDamage:
		return "extra_damage"
	case AbilityRegeneration:
		return "regeneration"
	case AbilityMutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// ParseAbilityKind is the inverse of AbilityKind.String.
func ParseAbilityKind(s string) (AbilityKind, error) {
	for _, k := range AbilityKinds {
		if k.String() == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown ability kind %q", s)
}

// --- Card (value type; two equal cards are interchangeable) ---

// ImmuneEffect is the payload of an immune card.
type ImmuneEffect struct {
	Kind  EffectKind
	Value int
}

type Card struct {
	Name        string
	Description string
	Kind        CardKind
	Tag         string // partner lookup key for combo cards

	Power   int          // Attack damage, Heal amount, Defense flat amount, Item magnitude
	Effect  ImmuneEffect // ImmuneInstant / ImmuneCombo
	Partner string       // ImmuneCombo: tag that must be present this turn
	Item    ItemKind
	Cost    int // Item: shop price in tokens
}

func (c Card) String() string {
	return c.Name
}

// NeedsTarget reports whether resolving the card deals damage to a pathogen.
func (c Card) NeedsTarget() bool {
	switch c.Kind {
	case CardAttack:
		return true
	case CardImmuneInstant, CardImmuneCombo:
		return c.Effect.Kind == EffectDamage
	default:
		return false
	}
}

// Summary returns a short rules text for the card.
func (c Card) Summary() string {
	switch c.Kind {
	case CardAttack:
		return fmt.Sprintf("deal %d damage", c.Power)
	case CardHeal:
		return fmt.Sprintf("heal %d", c.Power)
	case CardDefense:
		return fmt.Sprintf("+%d flat defense", c.Power)
	case CardImmuneInstant:
		return fmt.Sprintf("%s %d", c.Effect.Kind, c.Effect.Value)
	case CardImmuneCombo:
		return fmt.Sprintf("with %s: %s %d", c.Partner, c.Effect.Kind, c.Effect.Value)
	case CardItem:
		if c.Item == ItemBoost {
			return "double the next card"
		}
		return fmt.Sprintf("%s %d", c.Item, c.Power)
	default:
		return ""
	}
}

// --- Pathogen templates (immutable, authored data) ---

// AbilitySpec describes one timed pathogen ability.
type AbilitySpec struct {
	Kind        AbilityKind
	Interval    int // turns between triggers; 0 = never
	Value       int
	TargetKinds []CardKind // BlockCards only
}

// PathogenTemplate is shared, read-only stat data. Runtime state lives on PathogenInstance.
type PathogenTemplate struct {
	Name           string
	Description    string
	MaxHP          int
	AttackPower    int
	AttackInterval int
	Reward         int // tokens granted on defeat
	Abilities      map[AbilityKind]AbilitySpec
}

// Validate checks the template invariants.
func (t *PathogenTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("pathogen template has no name")
	}
	if t.MaxHP <= 0 {
		return fmt.Errorf("pathogen %q: max HP must be > 0, got %d", t.Name, t.MaxHP)
	}
	if t.AttackInterval < 1 {
		return fmt.Errorf("pathogen %q: attack interval must be >= 1, got %d", t.Name, t.AttackInterval)
	}
	for kind, a := range t.Abilities {
		if a.Kind != kind {
			return fmt.Errorf("pathogen %q: ability keyed %s has kind %s", t.Name, kind, a.Kind)
		}
		if a.Interval < 0 {
			return fmt.Errorf("pathogen %q: %s interval must be >= 0", t.Name, kind)
		}
	}
	return nil
}

// NewPathogenTemplate builds a template and panics on corrupt data.
func NewPathogenTemplate(name string, maxHP, attack, interval, reward int, abilities ...AbilitySpec) *PathogenTemplate {
	t := &PathogenTemplate{
		Name:           name,
		MaxHP:          maxHP,
		AttackPower:    attack,
		AttackInterval: interval,
		Reward:         reward,
		Abilities:      make(map[AbilityKind]AbilitySpec, len(abilities)),
	}
	for _, a := range abilities {
		t.Abilities[a.Kind] = a
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

// --- Action types ---

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionBuyItem
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayCard:
		return "Play Card"
	case ActionBuyItem:
		return "Buy Item"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

// Action represents a player action with all necessary details.
type Action struct {
	Type      ActionType
	Card      Card
	HandIndex int // position in hand for ActionPlayCard
	Target    int // pathogen instance ID, 0 = current target
	Desc      string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}
