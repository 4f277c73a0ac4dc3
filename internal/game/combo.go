package game

// OutcomeKind classifies what resolving a card did.
type OutcomeKind int

const (
	OutcomeDamage OutcomeKind = iota
	OutcomeHeal
	OutcomeDefense
	OutcomeDraw
	OutcomeBoostPrimed
	OutcomeBoostUsed
	OutcomeComboPending
	OutcomeComboActivated
	OutcomeComboDiscarded
	OutcomeNoEffect
)

// EffectOutcome is reported once per effect, in the order effects happen.
type EffectOutcome struct {
	Kind    OutcomeKind
	Card    Card
	Partner string // partner card name for combo activations
	Target  *PathogenInstance
	Damage  DamageResult
	Amount  int
	Drawn   []Card
}

// PlayContext is what a card resolves against.
type PlayContext struct {
	Player *PlayerState
	Target func() *PathogenInstance // current damage target, nil if none
	Played []Card                   // this turn's played cards, including the one resolving
	Draw   func(n int) []Card
	Report func(EffectOutcome)
}

func (ctx *PlayContext) report(o EffectOutcome) {
	if ctx.Report != nil {
		ctx.Report(o)
	}
}

type fieldEntry struct {
	card       Card
	multiplier int // boost captured when the card was played
	activated  bool
}

// Field holds combo cards waiting for their partner this turn.
type Field struct {
	capacity int
	entries  []*fieldEntry
}

// NewField creates a field with the given slot count (minimum 1).
func NewField(capacity int) *Field {
	if capacity < 1 {
		capacity = 1
	}
	return &Field{capacity: capacity}
}

// Waiting returns the number of entries still waiting for a partner.
func (f *Field) Waiting() int {
	n := 0
	for _, e := range f.entries {
		if !e.activated {
			n++
		}
	}
	return n
}

// Full reports whether another waiting card would exceed capacity.
func (f *Field) Full() bool {
	return f.Waiting() >= f.capacity
}

// Cards returns the cards currently on the field.
func (f *Field) Cards() []Card {
	out := make([]Card, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.card)
	}
	return out
}

func (f *Field) clear() {
	f.entries = nil
}

// ComboResolver applies card effects. Combo cards resolve only when a partner is in play.
type ComboResolver struct {
	combat *CombatResolver
	field  *Field
	boost  bool
}

// NewComboResolver creates a resolver over the given field.
func NewComboResolver(combat *CombatResolver, field *Field) *ComboResolver {
	return &ComboResolver{combat: combat, field: field}
}

// Field returns the resolver's field.
func (r *ComboResolver) Field() *Field {
	return r.field
}

// Boosted reports whether the next non-item card will be doubled.
func (r *ComboResolver) Boosted() bool {
	return r.boost
}

// BeginTurn clears per-turn combo state.
func (r *ComboResolver) BeginTurn() {
	r.field.clear()
}

// Admit checks, without changing anything, whether card can be played with the given played set.
func (r *ComboResolver) Admit(card Card, played []Card) error {
	if card.Kind != CardImmuneCombo {
		return nil
	}
	// card is not in played yet, so count it as present for the self check.
	withSelf := append(append([]Card(nil), played...), card)
	if _, ok := partnerIn(card, withSelf); ok {
		return nil
	}
	if r.field.Full() {
		return ErrFieldFull
	}
	return nil
}

// Resolve applies a just-played card, then re-evaluates any waiting combo cards.
func (r *ComboResolver) Resolve(card Card, ctx *PlayContext) {
	mult := 1
	if card.Kind != CardItem && r.boost {
		r.boost = false
		mult = 2
		ctx.report(EffectOutcome{Kind: OutcomeBoostUsed, Card: card})
	}

	switch card.Kind {
	case CardAttack:
		r.damage(card, card.Power*mult, ctx)
	case CardHeal:
		r.heal(card, card.Power*mult, ctx)
	case CardDefense:
		r.combat.GrantFlatDefense(ctx.Player, card.Power*mult)
		ctx.report(EffectOutcome{Kind: OutcomeDefense, Card: card, Amount: card.Power * mult})
	case CardImmuneInstant:
		r.applyEffect(card, card.Effect, mult, ctx)
	case CardImmuneCombo:
		entry := &fieldEntry{card: card, multiplier: mult}
		if partner, ok := partnerIn(card, ctx.Played); ok {
			entry.activated = true
			r.field.entries = append(r.field.entries, entry)
			ctx.report(EffectOutcome{Kind: OutcomeComboActivated, Card: card, Partner: partner.Name})
			r.applyEffect(card, card.Effect, mult, ctx)
		} else {
			r.field.entries = append(r.field.entries, entry)
			ctx.report(EffectOutcome{Kind: OutcomeComboPending, Card: card})
		}
	case CardItem:
		r.applyItem(card, ctx)
	}

	r.reevaluate(ctx)
}

// Settle re-evaluates waiting combo cards one last time, then clears the field.
// It returns the combo cards that never found a partner.
func (r *ComboResolver) Settle(ctx *PlayContext) []Card {
	r.reevaluate(ctx)
	var discarded []Card
	for _, e := range r.field.entries {
		if !e.activated {
			discarded = append(discarded, e.card)
			ctx.report(EffectOutcome{Kind: OutcomeComboDiscarded, Card: e.card})
		}
	}
	r.field.clear()
	return discarded
}

func (r *ComboResolver) reevaluate(ctx *PlayContext) {
	for _, e := range r.field.entries {
		if e.activated {
			continue
		}
		partner, ok := partnerIn(e.card, ctx.Played)
		if !ok {
			continue
		}
		e.activated = true
		ctx.report(EffectOutcome{Kind: OutcomeComboActivated, Card: e.card, Partner: partner.Name})
		r.applyEffect(e.card, e.card.Effect, e.multiplier, ctx)
	}
}

// partnerIn finds a card carrying card.Partner among played. played must include card itself;
// a card never partners with itself.
func partnerIn(card Card, played []Card) (Card, bool) {
	skippedSelf := false
	for _, p := range played {
		if p.Tag != card.Partner {
			continue
		}
		if p == card && !skippedSelf {
			skippedSelf = true
			continue
		}
		return p, true
	}
	return Card{}, false
}

func (r *ComboResolver) applyEffect(card Card, eff ImmuneEffect, mult int, ctx *PlayContext) {
	v := eff.Value * mult
	switch eff.Kind {
	case EffectDamage:
		r.damage(card, v, ctx)
	case EffectHeal:
		r.heal(card, v, ctx)
	case EffectFlatDefense:
		r.combat.GrantFlatDefense(ctx.Player, v)
		ctx.report(EffectOutcome{Kind: OutcomeDefense, Card: card, Amount: v})
	case EffectPercentDefense:
		r.combat.GrantPercentDefense(ctx.Player, v)
		ctx.report(EffectOutcome{Kind: OutcomeDefense, Card: card, Amount: v})
	}
}

// applyItem resolves an item. Items are never doubled by a boost.
func (r *ComboResolver) applyItem(card Card, ctx *PlayContext) {
	switch card.Item {
	case ItemBoost:
		r.boost = true
		ctx.report(EffectOutcome{Kind: OutcomeBoostPrimed, Card: card})
	case ItemRestore:
		r.heal(card, card.Power, ctx)
	case ItemDraw:
		var drawn []Card
		if ctx.Draw != nil {
			drawn = ctx.Draw(card.Power)
		}
		ctx.report(EffectOutcome{Kind: OutcomeDraw, Card: card, Amount: len(drawn), Drawn: drawn})
	case ItemShield:
		r.combat.GrantPercentDefense(ctx.Player, card.Power)
		ctx.report(EffectOutcome{Kind: OutcomeDefense, Card: card, Amount: card.Power})
	}
}

func (r *ComboResolver) damage(card Card, amount int, ctx *PlayContext) {
	var target *PathogenInstance
	if ctx.Target != nil {
		target = ctx.Target()
	}
	if target == nil || !target.Alive() {
		ctx.report(EffectOutcome{Kind: OutcomeNoEffect, Card: card})
		return
	}
	res := r.combat.ApplyDamage(target, amount)
	ctx.report(EffectOutcome{Kind: OutcomeDamage, Card: card, Target: target, Damage: res, Amount: res.Actual})
}

func (r *ComboResolver) heal(card Card, amount int, ctx *PlayContext) {
	old := ctx.Player.HP
	healed := r.combat.ApplyHeal(ctx.Player, amount)
	ctx.report(EffectOutcome{Kind: OutcomeHeal, Card: card, Amount: healed, Damage: DamageResult{OldHP: old, NewHP: ctx.Player.HP}})
}
