package game

import "math"

// Vitals is the health pool shared by the player and pathogens.
type Vitals struct {
	HP    int
	MaxHP int
	Dead  bool
}

func (v *Vitals) vitals() *Vitals { return v }

// Alive reports whether the pool is above zero.
func (v *Vitals) Alive() bool { return !v.Dead }

// Combatant is anything the combat resolver can damage or heal.
type Combatant interface {
	vitals() *Vitals
	Defense() (flat, percent int)
	Label() string
}

// DamageResult records one application of damage.
type DamageResult struct {
	Nominal      int
	AfterPercent int
	Actual       int
	OldHP        int
	NewHP        int
	Killed       bool
}

// Mitigate computes the damage that gets through percentage and flat defense.
func Mitigate(nominal, flat, percent int) (afterPercent, actual int) {
	if nominal < 0 {
		nominal = 0
	}
	afterPercent = nominal
	if percent > 0 {
		if percent > 100 {
			percent = 100
		}
		afterPercent = int(math.Round(float64(nominal) * float64(100-percent) / 100))
	}
	actual = afterPercent - flat
	if actual < 0 {
		actual = 0
	}
	return afterPercent, actual
}

// CombatResolver is the only place HP, defense and tokens change.
type CombatResolver struct {
	onDeath func(Combatant)
}

// NewCombatResolver creates a resolver. onDeath fires once per combatant when its HP reaches 0.
func NewCombatResolver(onDeath func(Combatant)) *CombatResolver {
	return &CombatResolver{onDeath: onDeath}
}

// ApplyDamage mitigates nominal damage by the target's defense and subtracts it from HP.
func (r *CombatResolver) ApplyDamage(target Combatant, nominal int) DamageResult {
	v := target.vitals()
	flat, pct := target.Defense()
	after, actual := Mitigate(nominal, flat, pct)
	res := DamageResult{Nominal: nominal, AfterPercent: after, Actual: actual, OldHP: v.HP, NewHP: v.HP}
	if v.Dead {
		res.Actual = 0
		return res
	}

	v.HP -= actual
	if v.HP < 0 {
		v.HP = 0
	}
	res.NewHP = v.HP
	if v.HP == 0 {
		v.Dead = true
		res.Killed = true
		if r.onDeath != nil {
			r.onDeath(target)
		}
	}
	return res
}

// ApplyHeal restores HP up to MaxHP and returns the amount actually healed.
func (r *CombatResolver) ApplyHeal(target Combatant, amount int) int {
	v := target.vitals()
	if v.Dead || amount <= 0 {
		return 0
	}
	old := v.HP
	v.HP += amount
	if v.HP > v.MaxHP {
		v.HP = v.MaxHP
	}
	return v.HP - old
}

// GrantFlatDefense adds flat damage reduction until the next player turn.
func (r *CombatResolver) GrantFlatDefense(p *PlayerState, amount int) {
	if amount <= 0 {
		return
	}
	p.FlatDefense += amount
}

// GrantPercentDefense raises percentage defense to pct if it is higher. Grants do not add up.
func (r *CombatResolver) GrantPercentDefense(p *PlayerState, pct int) {
	if pct > 100 {
		pct = 100
	}
	if pct > p.PercentDefense {
		p.PercentDefense = pct
	}
}

// ResetDefense clears both defense values. Called only at player-turn start.
func (r *CombatResolver) ResetDefense(p *PlayerState) {
	p.FlatDefense = 0
	p.PercentDefense = 0
}

// GrantTokens adds tokens to the player.
func (r *CombatResolver) GrantTokens(p *PlayerState, n int) {
	if n > 0 {
		p.Tokens += n
	}
}

// SpendTokens removes n tokens, or returns false and changes nothing if the player cannot pay.
func (r *CombatResolver) SpendTokens(p *PlayerState, n int) bool {
	if n < 0 || p.Tokens < n {
		return false
	}
	p.Tokens -= n
	return true
}
