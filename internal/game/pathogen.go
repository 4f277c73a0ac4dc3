package game

import "fmt"

// PathogenInstance is a live pathogen on the board. It borrows its template.
type PathogenInstance struct {
	ID       int
	Template *PathogenTemplate
	Vitals

	TurnCounter       int // pathogen turns this instance has taken
	CanAttackThisTurn bool

	blocked     map[CardKind]bool
	extraDamage int
}

// NewPathogenInstance spawns a full-health instance. A nil template is a programming error.
func NewPathogenInstance(id int, t *PathogenTemplate) *PathogenInstance {
	if t == nil {
		panic("pathogen instance requires a template")
	}
	return &PathogenInstance{
		ID:       id,
		Template: t,
		Vitals:   Vitals{HP: t.MaxHP, MaxHP: t.MaxHP},
		blocked:  make(map[CardKind]bool),
	}
}

func (p *PathogenInstance) String() string {
	return fmt.Sprintf("%s #%d (HP %d/%d)", p.Template.Name, p.ID, p.HP, p.MaxHP)
}

// Defense implements Combatant. Pathogens have no mitigation.
func (p *PathogenInstance) Defense() (flat, percent int) {
	return 0, 0
}

// Label implements Combatant.
func (p *PathogenInstance) Label() string {
	return p.Template.Name
}

// BeginTurn advances the turn counter and clears last turn's ability state.
func (p *PathogenInstance) BeginTurn() {
	p.TurnCounter++
	p.CanAttackThisTurn = false
	p.extraDamage = 0
	clear(p.blocked)
}

// AttackPower is the base attack plus this turn's extra damage.
func (p *PathogenInstance) AttackPower() int {
	return p.Template.AttackPower + p.extraDamage
}

// IsCardBlocked reports whether this pathogen currently blocks the card kind.
func (p *PathogenInstance) IsCardBlocked(kind CardKind) bool {
	return p.blocked[kind]
}

// BlockedKinds returns the blocked kinds in declaration order.
func (p *PathogenInstance) BlockedKinds() []CardKind {
	var kinds []CardKind
	for _, k := range CardKinds {
		if p.blocked[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// PathogenStatus is a read-only snapshot for presentation.
type PathogenStatus struct {
	ID           int
	Name         string
	HP           int
	MaxHP        int
	AttackPower  int
	TurnCounter  int
	Targeted     bool
	BlockedKinds []CardKind
}

// Status returns a snapshot of the instance.
func (p *PathogenInstance) Status(targeted bool) PathogenStatus {
	return PathogenStatus{
		ID:           p.ID,
		Name:         p.Template.Name,
		HP:           p.HP,
		MaxHP:        p.MaxHP,
		AttackPower:  p.Template.AttackPower,
		TurnCounter:  p.TurnCounter,
		Targeted:     targeted,
		BlockedKinds: p.BlockedKinds(),
	}
}
