package game

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenarioFile represents the top-level YAML structure.
type ScenarioFile struct {
	Decks     []DeckEntry     `yaml:"decks"`
	Pathogens []PathogenEntry `yaml:"pathogens"`
	Shop      []string        `yaml:"shop"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// PathogenEntry is either a catalog reference (name only) or a full inline template.
type PathogenEntry struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description,omitempty"`
	Count          int            `yaml:"count,omitempty"`
	MaxHP          int            `yaml:"max_hp,omitempty"`
	AttackPower    int            `yaml:"attack_power,omitempty"`
	AttackInterval int            `yaml:"attack_interval,omitempty"`
	Reward         int            `yaml:"reward,omitempty"`
	Abilities      []AbilityEntry `yaml:"abilities,omitempty"`
}

// AbilityEntry is the YAML form of an AbilitySpec.
type AbilityEntry struct {
	Kind     string   `yaml:"kind"`
	Interval int      `yaml:"interval"`
	Value    int      `yaml:"value,omitempty"`
	Targets  []string `yaml:"targets,omitempty"`
}

// NamedDeck is a resolved deck list.
type NamedDeck struct {
	Name  string
	Cards []Card
}

// Scenario is a fully resolved game setup: decks to choose from, the pathogen backlog and the shop.
type Scenario struct {
	Decks     []NamedDeck
	Pathogens []*PathogenTemplate
	Shop      []Card
}

// LoadScenario reads and resolves a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario parses YAML scenario data and resolves every name against the registries.
func ParseScenario(data []byte) (*Scenario, error) {
	var sf ScenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	return sf.Resolve()
}

// Resolve turns the file form into a Scenario.
func (sf ScenarioFile) Resolve() (*Scenario, error) {
	if len(sf.Decks) == 0 {
		return nil, fmt.Errorf("scenario has no decks")
	}
	if len(sf.Pathogens) == 0 {
		return nil, fmt.Errorf("scenario has no pathogens")
	}

	sc := &Scenario{}
	seen := make(map[string]bool)
	for _, deck := range sf.Decks {
		key := strings.ToLower(strings.TrimSpace(deck.Name))
		if seen[key] {
			return nil, fmt.Errorf("duplicate deck name %q", deck.Name)
		}
		seen[key] = true

		var cards []Card
		for _, entry := range deck.Cards {
			card, ok := FindCard(entry.Name)
			if !ok {
				return nil, fmt.Errorf("deck %q: unknown card %q", deck.Name, entry.Name)
			}
			for i := 0; i < entry.Count; i++ {
				cards = append(cards, card)
			}
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("deck %q is empty", deck.Name)
		}
		sc.Decks = append(sc.Decks, NamedDeck{Name: deck.Name, Cards: cards})
	}

	for _, entry := range sf.Pathogens {
		t, err := entry.template()
		if err != nil {
			return nil, err
		}
		count := entry.Count
		if count == 0 {
			count = 1
		}
		// Repeated entries share one template.
		for i := 0; i < count; i++ {
			sc.Pathogens = append(sc.Pathogens, t)
		}
	}

	for _, name := range sf.Shop {
		card, ok := FindCard(name)
		if !ok {
			return nil, fmt.Errorf("shop: unknown card %q", name)
		}
		if card.Kind != CardItem {
			return nil, fmt.Errorf("shop: %q is not an item", name)
		}
		sc.Shop = append(sc.Shop, card)
	}
	return sc, nil
}

func (e PathogenEntry) template() (*PathogenTemplate, error) {
	if e.MaxHP == 0 && e.AttackPower == 0 && len(e.Abilities) == 0 {
		t, ok := FindPathogen(e.Name)
		if !ok {
			return nil, fmt.Errorf("unknown pathogen %q (give max_hp/attack_power to define it inline)", e.Name)
		}
		return t, nil
	}

	t := &PathogenTemplate{
		Name:           e.Name,
		Description:    e.Description,
		MaxHP:          e.MaxHP,
		AttackPower:    e.AttackPower,
		AttackInterval: e.AttackInterval,
		Reward:         e.Reward,
		Abilities:      make(map[AbilityKind]AbilitySpec, len(e.Abilities)),
	}
	if t.AttackInterval == 0 {
		t.AttackInterval = 1
	}
	for _, a := range e.Abilities {
		kind, err := ParseAbilityKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("pathogen %q: %w", e.Name, err)
		}
		if _, dup := t.Abilities[kind]; dup {
			return nil, fmt.Errorf("pathogen %q: duplicate ability %s", e.Name, kind)
		}
		spec := AbilitySpec{Kind: kind, Interval: a.Interval, Value: a.Value}
		for _, target := range a.Targets {
			ck, err := ParseCardKind(target)
			if err != nil {
				return nil, fmt.Errorf("pathogen %q: %w", e.Name, err)
			}
			spec.TargetKinds = append(spec.TargetKinds, ck)
		}
		t.Abilities[kind] = spec
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DeckByNumber returns the Nth deck (1-indexed).
func (sc *Scenario) DeckByNumber(n int) (string, []Card, error) {
	if n < 1 || n > len(sc.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(sc.Decks))
	}
	d := sc.Decks[n-1]
	cards := make([]Card, len(d.Cards))
	copy(cards, d.Cards)
	return d.Name, cards, nil
}

// FindShopItem returns the shop item with the given name.
func (sc *Scenario) FindShopItem(name string) (Card, bool) {
	for _, c := range sc.Shop {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Card{}, false
}

// DefaultScenario is the built-in setup used when no scenario file is given.
func DefaultScenario() *Scenario {
	sc, err := defaultScenarioFile().Resolve()
	if err != nil {
		panic(err)
	}
	return sc
}

func defaultScenarioFile() ScenarioFile {
	return ScenarioFile{
		Decks: []DeckEntry{
			{
				Name: "Innate Response",
				Cards: []CardEntry{
					{Name: "Macrophage", Count: 6},
					{Name: "Neutrophil", Count: 6},
					{Name: "Fever", Count: 3},
					{Name: "Interferon", Count: 3},
					{Name: "Mucus Barrier", Count: 4},
					{Name: "Skin Barrier", Count: 2},
					{Name: "Complement System", Count: 3},
					{Name: "Vitamin C", Count: 1},
				},
			},
			{
				Name: "Adaptive Response",
				Cards: []CardEntry{
					{Name: "Macrophage", Count: 4},
					{Name: "Helper T Cell", Count: 5},
					{Name: "Antibody", Count: 4},
					{Name: "Killer T Cell", Count: 3},
					{Name: "Memory B Cell", Count: 2},
					{Name: "Natural Killer Cell", Count: 2},
					{Name: "Tissue Repair", Count: 3},
					{Name: "Mucus Barrier", Count: 3},
					{Name: "Vaccine Booster", Count: 2},
					{Name: "Good Sleep", Count: 2},
				},
			},
		},
		Pathogens: []PathogenEntry{
			{Name: "Rhinovirus"},
			{Name: "Influenza"},
			{Name: "Candida"},
			{Name: "Staphylococcus"},
			{Name: "Salmonella"},
			{Name: "HIV"},
		},
		Shop: []string{"Vaccine Booster", "Vitamin C", "Good Sleep", "Face Mask"},
	}
}
