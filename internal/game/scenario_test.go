package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScenarioYAML = `
decks:
  - name: Starter
    cards:
      - name: Macrophage
        count: 3
      - name: Helper T Cell
        count: 2
  - name: Barrier
    cards:
      - name: Skin Barrier
        count: 4
pathogens:
  - name: Rhinovirus
    count: 2
  - name: Spore Cloud
    max_hp: 25
    attack_power: 4
    attack_interval: 2
    reward: 1
    abilities:
      - kind: block_cards
        interval: 2
        targets: [heal, item]
      - kind: regeneration
        interval: 3
        value: 2
shop:
  - Vitamin C
  - Face Mask
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(testScenarioYAML))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}

	if len(sc.Decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(sc.Decks))
	}
	name, cards, err := sc.DeckByNumber(1)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Starter" || len(cards) != 5 {
		t.Errorf("deck 1: got %q with %d cards", name, len(cards))
	}
	if _, _, err := sc.DeckByNumber(3); err == nil {
		t.Error("expected error for deck 3")
	}

	if len(sc.Pathogens) != 3 {
		t.Fatalf("expected 3 pathogens, got %d", len(sc.Pathogens))
	}
	if sc.Pathogens[0] != sc.Pathogens[1] {
		t.Error("counted entries should share one template")
	}
	spore := sc.Pathogens[2]
	if spore.Name != "Spore Cloud" || spore.MaxHP != 25 || spore.AttackInterval != 2 {
		t.Errorf("inline pathogen parsed wrong: %+v", spore)
	}
	block, ok := spore.Abilities[AbilityBlockCards]
	if !ok || len(block.TargetKinds) != 2 || block.TargetKinds[1] != CardItem {
		t.Errorf("block ability parsed wrong: %+v", block)
	}
	if spore.Abilities[AbilityRegeneration].Value != 2 {
		t.Errorf("regeneration parsed wrong: %+v", spore.Abilities[AbilityRegeneration])
	}

	if len(sc.Shop) != 2 {
		t.Errorf("expected 2 shop items, got %d", len(sc.Shop))
	}
	if _, ok := sc.FindShopItem("face mask"); !ok {
		t.Error("shop lookup should ignore case")
	}
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no decks", "pathogens: [{name: HIV}]", "no decks"},
		{"unknown card", "decks: [{name: A, cards: [{name: Scalpel, count: 1}]}]\npathogens: [{name: HIV}]", "unknown card"},
		{"empty deck", "decks: [{name: A, cards: []}]\npathogens: [{name: HIV}]", "empty"},
		{"unknown pathogen", "decks: [{name: A, cards: [{name: Fever, count: 1}]}]\npathogens: [{name: Ebola}]", "unknown pathogen"},
		{"bad interval", "decks: [{name: A, cards: [{name: Fever, count: 1}]}]\npathogens: [{name: X, max_hp: 5, attack_power: 1, attack_interval: -1}]", "attack interval"},
		{"bad ability", "decks: [{name: A, cards: [{name: Fever, count: 1}]}]\npathogens: [{name: X, max_hp: 5, abilities: [{kind: teleport, interval: 1}]}]", "unknown ability"},
		{"shop non-item", "decks: [{name: A, cards: [{name: Fever, count: 1}]}]\npathogens: [{name: HIV}]\nshop: [Fever]", "not an item"},
		{"duplicate deck", "decks: [{name: A, cards: [{name: Fever, count: 1}]}, {name: a, cards: [{name: Fever, count: 1}]}]\npathogens: [{name: HIV}]", "duplicate"},
		{"bad yaml", "decks: [", "parse scenario"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(testScenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(sc.Decks) != 2 {
		t.Errorf("expected 2 decks, got %d", len(sc.Decks))
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()
	if len(sc.Decks) < 2 || len(sc.Pathogens) != len(PathogenRegistry) || len(sc.Shop) == 0 {
		t.Errorf("unexpected default scenario: %d decks, %d pathogens, %d items", len(sc.Decks), len(sc.Pathogens), len(sc.Shop))
	}
	for _, d := range sc.Decks {
		if len(d.Cards) < DefaultRules().InitialDraw {
			t.Errorf("deck %q is too small to draw an opening hand", d.Name)
		}
	}
}

func TestRegistryCoversCatalog(t *testing.T) {
	for _, name := range CardNames() {
		c := LookupCard(name)
		if c.Name != name {
			t.Errorf("registry key %q builds card %q", name, c.Name)
		}
		if c.Kind == CardImmuneCombo && c.Partner == "" {
			t.Errorf("%s is a combo card without a partner", name)
		}
	}
	for _, name := range PathogenNames() {
		tmpl, ok := FindPathogen(name)
		if !ok || tmpl.Name != name {
			t.Errorf("registry key %q builds %v", name, tmpl)
		}
	}
}

func TestParseKinds(t *testing.T) {
	for _, k := range CardKinds {
		got, err := ParseCardKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseCardKind(%q) = %v, %v", k, got, err)
		}
	}
	for _, k := range AbilityKinds {
		got, err := ParseAbilityKind(strings.ToUpper(k.String()))
		if err != nil || got != k {
			t.Errorf("ParseAbilityKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseCardKind("spell"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
