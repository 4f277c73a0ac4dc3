package game

import (
	"os"
	"testing"

	"github.com/peterkuimelis/immuno/internal/log"
)

// TestTranscriptAdaptiveVsInfluenza replays three turns of the adaptive deck against
// Influenza followed by Candida. Covers a boosted waiting combo, an immediate combo,
// a kill that spawns the next pathogen with a reward, and flat defense against an attack.
func TestTranscriptAdaptiveVsInfluenza(t *testing.T) {
	// Draw order (index 0 drawn first):
	//   0-4:  opening hand
	//   5-7:  T2 draws
	//   8-10: T3 draws
	deck := makePaddedDeck([]Card{
		HelperTCell(),       // opening hand
		Antibody(),          // opening hand
		Macrophage(),        // opening hand
		VaccineBooster(),    // opening hand
		MucusBarrier(),      // opening hand
		KillerTCell(),       // T2
		HelperTCell(),       // T2
		NaturalKillerCell(), // T2
		Macrophage(),        // T3
		SkinBarrier(),       // T3
		TissueRepair(),      // T3
	}, 30)

	logger := log.NewTextLogger(os.Stdout)
	e, err := NewEngine(EngineConfig{
		Rules:     testRules(),
		Deck:      NewDeck(deck, nil, true),
		Pathogens: []*PathogenTemplate{Influenza(), Candida()},
		Logger:    logger,
		Seed:      1,
		NoShuffle: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	// Turn 1: boost, Antibody waits with the boost, Helper T Cell activates it for 24.
	mustPlay(t, e, "Vaccine Booster")
	mustPlay(t, e, "Antibody")
	mustPlay(t, e, "Helper T Cell")
	// Influenza attacks for 8 on its first turn.

	// Turn 2: partner first, then two hits. Influenza rests.
	mustPlay(t, e, "Helper T Cell")
	mustPlay(t, e, "Killer T Cell")
	mustPlay(t, e, "Natural Killer Cell")

	// Turn 3: finish Influenza, shield up, hit Candida.
	mustPlay(t, e, "Macrophage")
	mustPlay(t, e, "Skin Barrier")
	mustPlay(t, e, "Macrophage")
	// Candida attacks for 7, 5 absorbed.

	if e.TurnNumber() != 4 || e.IsOver() {
		t.Fatalf("expected turn 4 in progress, got turn %d (%s)", e.TurnNumber(), e.Result())
	}
	stats := e.PlayerStats()
	if stats.HP != 90 {
		t.Errorf("expected player HP 90, got %d", stats.HP)
	}
	if stats.Tokens != 3 {
		t.Errorf("expected Influenza's reward of 3 tokens, got %d", stats.Tokens)
	}
	active := e.ActivePathogens()
	if len(active) != 1 || active[0].Name != "Candida" || active[0].HP != 39 {
		t.Errorf("expected Candida at 39 HP, got %+v", active)
	}

	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
}
