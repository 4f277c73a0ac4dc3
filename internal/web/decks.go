package web

import (
	"sort"

	"github.com/peterkuimelis/immuno/internal/game"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Summary     string `json:"summary"`
	Power       int    `json:"power,omitempty"`
	Partner     string `json:"partner,omitempty"`
	Cost        int    `json:"cost,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int            `json:"number"`
	Name   string         `json:"name"`
	Size   int            `json:"size"`
	Cards  map[string]int `json:"cards"`
}

// AbilityInfo describes one timed pathogen ability.
type AbilityInfo struct {
	Kind     string   `json:"kind"`
	Interval int      `json:"interval"`
	Value    int      `json:"value,omitempty"`
	Targets  []string `json:"targets,omitempty"`
}

// PathogenInfo is the JSON representation of a pathogen for the /api/pathogens endpoint.
type PathogenInfo struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	MaxHP          int           `json:"maxHp"`
	AttackPower    int           `json:"attackPower"`
	AttackInterval int           `json:"attackInterval"`
	Reward         int           `json:"reward"`
	Count          int           `json:"count"`
	Abilities      []AbilityInfo `json:"abilities,omitempty"`
}

func newCardInfo(c game.Card) CardInfo {
	ci := CardInfo{
		Name:        c.Name,
		Description: c.Description,
		Kind:        c.Kind.String(),
		Summary:     c.Summary(),
		Power:       c.Power,
		Partner:     c.Partner,
	}
	if c.Kind == game.CardItem {
		ci.Cost = c.Cost
	}
	return ci
}

func catalogCards() []CardInfo {
	var cards []CardInfo
	for _, name := range game.CardNames() {
		cards = append(cards, newCardInfo(game.LookupCard(name)))
	}
	return cards
}

func deckInfos(sc *game.Scenario) []DeckInfo {
	var decks []DeckInfo
	for i, d := range sc.Decks {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Size:   len(d.Cards),
			Cards:  make(map[string]int),
		}
		for _, c := range d.Cards {
			di.Cards[c.Name]++
		}
		decks = append(decks, di)
	}
	return decks
}

// pathogenInfos lists the scenario's pathogens in arrival order, merging repeated templates.
func pathogenInfos(sc *game.Scenario) []PathogenInfo {
	var infos []PathogenInfo
	index := make(map[*game.PathogenTemplate]int)
	for _, t := range sc.Pathogens {
		if i, ok := index[t]; ok {
			infos[i].Count++
			continue
		}
		pi := PathogenInfo{
			Name:           t.Name,
			Description:    t.Description,
			MaxHP:          t.MaxHP,
			AttackPower:    t.AttackPower,
			AttackInterval: t.AttackInterval,
			Reward:         t.Reward,
			Count:          1,
		}
		for _, a := range t.Abilities {
			ai := AbilityInfo{Kind: a.Kind.String(), Interval: a.Interval, Value: a.Value}
			for _, k := range a.TargetKinds {
				ai.Targets = append(ai.Targets, k.String())
			}
			pi.Abilities = append(pi.Abilities, ai)
		}
		sort.Slice(pi.Abilities, func(i, j int) bool { return pi.Abilities[i].Kind < pi.Abilities[j].Kind })
		index[t] = len(infos)
		infos = append(infos, pi)
	}
	return infos
}
