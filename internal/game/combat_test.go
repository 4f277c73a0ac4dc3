package game

import "testing"

func TestMitigate(t *testing.T) {
	tests := []struct {
		name          string
		nominal       int
		flat, percent int
		wantAfter     int
		wantActual    int
	}{
		{"no defense", 20, 0, 0, 20, 20},
		{"flat only", 20, 5, 0, 20, 15},
		{"percent only", 20, 0, 50, 10, 10},
		{"percent then flat", 20, 5, 50, 10, 5},
		{"flat exceeds damage", 4, 10, 0, 4, 0},
		{"full percent", 30, 0, 100, 0, 0},
		{"percent over 100 clamps", 30, 0, 150, 0, 0},
		{"rounds half up", 5, 0, 50, 3, 3},
		{"rounds half up from one", 1, 0, 50, 1, 1},
		{"rounds half up before flat", 15, 3, 50, 8, 5},
		{"rounds down", 7, 0, 30, 5, 5},
		{"negative nominal", -5, 0, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			after, actual := Mitigate(tc.nominal, tc.flat, tc.percent)
			if after != tc.wantAfter || actual != tc.wantActual {
				t.Errorf("Mitigate(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.nominal, tc.flat, tc.percent, after, actual, tc.wantAfter, tc.wantActual)
			}
		})
	}
}

func TestApplyDamage_DefendedPlayer(t *testing.T) {
	r := NewCombatResolver(nil)
	p := NewPlayerState(100, 7, 0)
	r.GrantPercentDefense(p, 50)
	r.GrantFlatDefense(p, 5)

	res := r.ApplyDamage(p, 20)
	if res.AfterPercent != 10 || res.Actual != 5 {
		t.Errorf("expected afterPct=10 actual=5, got %+v", res)
	}
	if p.HP != 95 {
		t.Errorf("expected HP 95, got %d", p.HP)
	}
}

func TestApplyDamage_FloorsAtZeroAndDiesOnce(t *testing.T) {
	deaths := 0
	r := NewCombatResolver(func(Combatant) { deaths++ })
	inst := NewPathogenInstance(1, dummyPathogen("Germ", 10, 1, 1))

	res := r.ApplyDamage(inst, 25)
	if inst.HP != 0 || !res.Killed || !inst.Dead {
		t.Fatalf("expected dead pathogen at 0 HP, got HP=%d result=%+v", inst.HP, res)
	}
	res = r.ApplyDamage(inst, 5)
	if res.Actual != 0 || res.Killed {
		t.Errorf("damage to a dead target should be a no-op, got %+v", res)
	}
	if deaths != 1 {
		t.Errorf("expected death callback once, got %d", deaths)
	}
}

func TestApplyHeal(t *testing.T) {
	r := NewCombatResolver(nil)
	p := NewPlayerState(50, 7, 0)
	p.HP = 45

	if got := r.ApplyHeal(p, 10); got != 5 {
		t.Errorf("expected heal clamped to 5, got %d", got)
	}
	if p.HP != 50 {
		t.Errorf("expected HP 50, got %d", p.HP)
	}
	if got := r.ApplyHeal(p, -3); got != 0 {
		t.Errorf("negative heal should do nothing, got %d", got)
	}

	p.HP = 0
	p.Dead = true
	if got := r.ApplyHeal(p, 10); got != 0 || p.HP != 0 {
		t.Errorf("dead player should not heal, got %d (HP %d)", got, p.HP)
	}
}

func TestPercentDefenseTakesMaximum(t *testing.T) {
	r := NewCombatResolver(nil)
	p := NewPlayerState(100, 7, 0)

	r.GrantPercentDefense(p, 25)
	r.GrantPercentDefense(p, 50)
	r.GrantPercentDefense(p, 30)
	if p.PercentDefense != 50 {
		t.Errorf("expected 50%%, got %d%%", p.PercentDefense)
	}
	r.GrantPercentDefense(p, 250)
	if p.PercentDefense != 100 {
		t.Errorf("expected clamp to 100%%, got %d%%", p.PercentDefense)
	}

	r.GrantFlatDefense(p, 3)
	r.GrantFlatDefense(p, 4)
	if p.FlatDefense != 7 {
		t.Errorf("flat defense should add up to 7, got %d", p.FlatDefense)
	}

	r.ResetDefense(p)
	if p.FlatDefense != 0 || p.PercentDefense != 0 {
		t.Errorf("expected defense reset, got %d/%d", p.FlatDefense, p.PercentDefense)
	}
}

func TestTokens(t *testing.T) {
	r := NewCombatResolver(nil)
	p := NewPlayerState(100, 7, 2)

	r.GrantTokens(p, 3)
	if p.Tokens != 5 {
		t.Fatalf("expected 5 tokens, got %d", p.Tokens)
	}
	if r.SpendTokens(p, 6) {
		t.Error("overspending should fail")
	}
	if p.Tokens != 5 {
		t.Errorf("failed spend must not change tokens, got %d", p.Tokens)
	}
	if !r.SpendTokens(p, 5) || p.Tokens != 0 {
		t.Errorf("expected exact spend to succeed, tokens=%d", p.Tokens)
	}
}
