package game

import (
	"errors"
	"testing"
)

type comboRig struct {
	r        *ComboResolver
	player   *PlayerState
	target   *PathogenInstance
	outcomes []EffectOutcome
	drawPile []Card
}

func newComboRig(fieldCapacity int) *comboRig {
	combat := NewCombatResolver(nil)
	return &comboRig{
		r:      NewComboResolver(combat, NewField(fieldCapacity)),
		player: NewPlayerState(100, 7, 0),
		target: NewPathogenInstance(1, dummyPathogen("Target", 100, 1, 1)),
	}
}

func (rig *comboRig) ctx() *PlayContext {
	return &PlayContext{
		Player: rig.player,
		Target: func() *PathogenInstance { return rig.target },
		Played: rig.player.Played,
		Draw: func(n int) []Card {
			if n > len(rig.drawPile) {
				n = len(rig.drawPile)
			}
			drawn := rig.drawPile[:n]
			rig.drawPile = rig.drawPile[n:]
			rig.player.Hand = append(rig.player.Hand, drawn...)
			return drawn
		},
		Report: func(o EffectOutcome) { rig.outcomes = append(rig.outcomes, o) },
	}
}

func (rig *comboRig) play(card Card) error {
	if err := rig.r.Admit(card, rig.player.Played); err != nil {
		return err
	}
	rig.player.Played = append(rig.player.Played, card)
	rig.r.Resolve(card, rig.ctx())
	return nil
}

func (rig *comboRig) endTurn() []Card {
	discarded := rig.r.Settle(rig.ctx())
	rig.player.ClearPlayed()
	rig.r.BeginTurn()
	return discarded
}

func (rig *comboRig) count(kind OutcomeKind) int {
	n := 0
	for _, o := range rig.outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

func TestCombo_PartnerFirst(t *testing.T) {
	rig := newComboRig(2)
	rig.play(HelperTCell())
	rig.play(Antibody())

	if rig.target.HP != 88 {
		t.Errorf("expected Antibody to deal 12 (HP 88), got HP %d", rig.target.HP)
	}
	if rig.count(OutcomeComboActivated) != 1 || rig.count(OutcomeComboPending) != 0 {
		t.Errorf("expected one immediate activation, outcomes: %+v", rig.outcomes)
	}
	if discarded := rig.endTurn(); len(discarded) != 0 {
		t.Errorf("nothing should be discarded, got %v", discarded)
	}
	if rig.target.HP != 88 {
		t.Errorf("effect must fire exactly once, HP %d", rig.target.HP)
	}
}

func TestCombo_PartnerSecond(t *testing.T) {
	rig := newComboRig(2)
	rig.play(Antibody())
	if rig.target.HP != 100 {
		t.Fatalf("waiting combo must not resolve yet, HP %d", rig.target.HP)
	}
	if rig.r.Field().Waiting() != 1 {
		t.Fatalf("expected 1 waiting card, got %d", rig.r.Field().Waiting())
	}

	rig.play(HelperTCell())
	if rig.target.HP != 88 {
		t.Errorf("expected activation on partner play (HP 88), got %d", rig.target.HP)
	}
	if rig.r.Field().Waiting() != 0 {
		t.Errorf("activated card should no longer wait")
	}

	rig.endTurn()
	if rig.target.HP != 88 || rig.count(OutcomeComboActivated) != 1 {
		t.Errorf("effect must fire exactly once, HP %d, activations %d", rig.target.HP, rig.count(OutcomeComboActivated))
	}
}

func TestCombo_NoPartnerIsDiscarded(t *testing.T) {
	rig := newComboRig(2)
	rig.play(Antibody())
	rig.play(Macrophage())

	discarded := rig.endTurn()
	if len(discarded) != 1 || discarded[0].Name != "Antibody" {
		t.Fatalf("expected Antibody discarded, got %v", discarded)
	}
	if rig.target.HP != 94 {
		t.Errorf("only Macrophage should have dealt damage (HP 94), got %d", rig.target.HP)
	}
	if len(rig.r.Field().Cards()) != 0 {
		t.Error("field should be empty after settle")
	}

	// A partner next turn does not revive last turn's card.
	rig.play(HelperTCell())
	if rig.target.HP != 94 {
		t.Errorf("discarded combo fired on a later turn, HP %d", rig.target.HP)
	}
}

func TestCombo_FieldFull(t *testing.T) {
	rig := newComboRig(1)
	if err := rig.play(Antibody()); err != nil {
		t.Fatal(err)
	}
	err := rig.play(KillerTCell())
	if !errors.Is(err, ErrFieldFull) {
		t.Fatalf("expected ErrFieldFull, got %v", err)
	}
	if len(rig.player.Played) != 1 {
		t.Error("rejected card must not be recorded as played")
	}

	// With its partner already present a combo card never needs a slot.
	rig.play(HelperTCell())
	if err := rig.play(KillerTCell()); err != nil {
		t.Fatalf("combo with partner present should be admitted: %v", err)
	}
	if rig.target.HP != 100-12-15 {
		t.Errorf("expected both combos to land, HP %d", rig.target.HP)
	}
}

func TestCombo_ChainedPartners(t *testing.T) {
	rig := newComboRig(2)
	rig.play(MemoryBCell()) // needs antibody
	if rig.player.PercentDefense != 0 {
		t.Fatal("Memory B Cell should wait for its partner")
	}

	// A played partner counts even while it is itself still waiting.
	rig.play(Antibody()) // needs helper_t
	if rig.player.PercentDefense != 50 {
		t.Errorf("expected Memory B Cell to fire once Antibody was played, got %d%%", rig.player.PercentDefense)
	}
	if rig.target.HP != 100 {
		t.Fatalf("Antibody should still be waiting, HP %d", rig.target.HP)
	}

	rig.play(HelperTCell())
	if rig.target.HP != 88 {
		t.Errorf("expected Antibody to fire, HP %d", rig.target.HP)
	}
	if rig.count(OutcomeComboActivated) != 2 {
		t.Errorf("expected 2 activations, got %d", rig.count(OutcomeComboActivated))
	}
}

func TestCombo_NeverPartnersWithItself(t *testing.T) {
	twin := Card{Name: "Twin", Kind: CardImmuneCombo, Tag: "twin", Partner: "twin", Effect: ImmuneEffect{Kind: EffectDamage, Value: 10}}
	rig := newComboRig(2)
	rig.play(twin)
	if rig.target.HP != 100 {
		t.Errorf("a lone twin must not activate itself, HP %d", rig.target.HP)
	}
	rig.play(twin)
	if rig.target.HP != 80 {
		t.Errorf("two twins should activate each other, HP %d", rig.target.HP)
	}
}

func TestBoost_DoublesNextNonItem(t *testing.T) {
	rig := newComboRig(2)
	rig.play(VaccineBooster())
	if !rig.r.Boosted() {
		t.Fatal("expected boost primed")
	}
	rig.play(VitaminC()) // items are not doubled and do not consume the boost
	if !rig.r.Boosted() {
		t.Fatal("an item consumed the boost")
	}

	rig.play(Macrophage())
	if rig.target.HP != 88 {
		t.Errorf("expected doubled Macrophage (12 damage), HP %d", rig.target.HP)
	}
	if rig.r.Boosted() {
		t.Error("boost should be consumed")
	}

	rig.endTurn()
	rig.play(Macrophage())
	if rig.target.HP != 82 {
		t.Errorf("second Macrophage should deal 6, HP %d", rig.target.HP)
	}
}

func TestBoost_PersistsAcrossTurns(t *testing.T) {
	rig := newComboRig(2)
	rig.play(VaccineBooster())
	rig.endTurn()

	rig.play(Neutrophil())
	if rig.target.HP != 92 {
		t.Errorf("boost from last turn should double Neutrophil, HP %d", rig.target.HP)
	}
}

func TestBoost_CapturedByWaitingCombo(t *testing.T) {
	rig := newComboRig(2)
	rig.play(VaccineBooster())
	rig.play(Antibody()) // captures the boost while waiting
	rig.play(HelperTCell())

	if rig.target.HP != 76 {
		t.Errorf("expected boosted Antibody (24 damage), HP %d", rig.target.HP)
	}
}

func TestItems(t *testing.T) {
	rig := newComboRig(2)
	rig.player.HP = 80
	rig.drawPile = []Card{Fever(), Neutrophil(), Macrophage()}

	rig.play(VitaminC())
	if rig.player.HP != 90 {
		t.Errorf("Vitamin C should heal 10, HP %d", rig.player.HP)
	}
	rig.play(GoodSleep())
	if len(rig.player.Hand) != 2 || len(rig.drawPile) != 1 {
		t.Errorf("Good Sleep should draw 2, hand=%v", rig.player.Hand)
	}
	rig.play(FaceMask())
	if rig.player.PercentDefense != 30 {
		t.Errorf("Face Mask should grant 30%%, got %d", rig.player.PercentDefense)
	}
}

func TestResolve_NoTargetHasNoEffect(t *testing.T) {
	rig := newComboRig(2)
	rig.target = nil
	rig.play(Macrophage())
	if rig.count(OutcomeNoEffect) != 1 {
		t.Errorf("expected a no-effect outcome, got %+v", rig.outcomes)
	}
}
