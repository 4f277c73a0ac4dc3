package game

// ShouldAttack reports whether a pathogen attacks on its turn t: turn 1 and every interval turns after.
func ShouldAttack(t, interval int) bool {
	if interval < 1 {
		interval = 1
	}
	return (t-1)%interval == 0
}

// ShouldTrigger reports whether an ability fires on turn t. Interval 0 never fires.
// The first eligible turn is t == interval, not turn 1 as for attacks.
func ShouldTrigger(t, interval int) bool {
	return interval > 0 && t%interval == 0
}

// AbilityActivation records one ability that fired.
type AbilityActivation struct {
	Kind   AbilityKind
	Value  int    // heal amount actually applied for Regeneration/Mutation
	Kinds  []CardKind
	Healed bool
}

// AbilityScheduler decides which of a pathogen's abilities fire on a given turn.
type AbilityScheduler struct {
	combat *CombatResolver
}

// NewAbilityScheduler creates a scheduler that heals through the given resolver.
func NewAbilityScheduler(combat *CombatResolver) *AbilityScheduler {
	return &AbilityScheduler{combat: combat}
}

// Schedule evaluates p's abilities for its current TurnCounter and sets CanAttackThisTurn.
// It must run before the attack so extra damage applies to this turn's attack.
func (s *AbilityScheduler) Schedule(p *PathogenInstance) []AbilityActivation {
	t := p.TurnCounter
	p.CanAttackThisTurn = ShouldAttack(t, p.Template.AttackInterval)

	var fired []AbilityActivation
	for _, kind := range AbilityKinds {
		spec, ok := p.Template.Abilities[kind]
		if !ok || !ShouldTrigger(t, spec.Interval) {
			continue
		}
		act := AbilityActivation{Kind: kind, Value: spec.Value}
		switch kind {
		case AbilityBlockCards:
			for _, k := range spec.TargetKinds {
				p.blocked[k] = true
			}
			act.Kinds = p.BlockedKinds()
		case AbilityExtraDamage:
			p.extraDamage += spec.Value
		case AbilityRegeneration, AbilityMutation:
			act.Value = s.combat.ApplyHeal(p, spec.Value)
			act.Healed = true
		}
		fired = append(fired, act)
	}
	return fired
}
