package game

// --- Attack cards ---

func Macrophage() Card {
	return Card{
		Name:        "Macrophage",
		Description: "Engulfs the targeted pathogen.",
		Kind:        CardAttack,
		Tag:         "macrophage",
		Power:       6,
	}
}

func Neutrophil() Card {
	return Card{
		Name:        "Neutrophil",
		Description: "First responder. Weak but plentiful.",
		Kind:        CardAttack,
		Tag:         "neutrophil",
		Power:       4,
	}
}

func NaturalKillerCell() Card {
	return Card{
		Name:        "Natural Killer Cell",
		Description: "Destroys infected cells without prior activation.",
		Kind:        CardAttack,
		Tag:         "nk_cell",
		Power:       9,
	}
}

// --- Heal cards ---

func Interferon() Card {
	return Card{
		Name:        "Interferon",
		Description: "Signals neighbouring cells to resist infection.",
		Kind:        CardHeal,
		Tag:         "interferon",
		Power:       8,
	}
}

func TissueRepair() Card {
	return Card{
		Name:        "Tissue Repair",
		Description: "Restores a little health.",
		Kind:        CardHeal,
		Tag:         "tissue_repair",
		Power:       5,
	}
}

// --- Defense cards ---

func MucusBarrier() Card {
	return Card{
		Name:        "Mucus Barrier",
		Description: "Traps incoming particles until your next turn.",
		Kind:        CardDefense,
		Tag:         "mucus",
		Power:       3,
	}
}

func SkinBarrier() Card {
	return Card{
		Name:        "Skin Barrier",
		Description: "A thick outer wall until your next turn.",
		Kind:        CardDefense,
		Tag:         "skin",
		Power:       5,
	}
}

// --- Immune cards ---

func HelperTCell() Card {
	return Card{
		Name:        "Helper T Cell",
		Description: "Coordinates the adaptive response. Partner for antibodies and killer cells.",
		Kind:        CardImmuneInstant,
		Tag:         "helper_t",
		Effect:      ImmuneEffect{Kind: EffectHeal, Value: 3},
	}
}

func ComplementSystem() Card {
	return Card{
		Name:        "Complement System",
		Description: "Blunts incoming attacks by a quarter until your next turn.",
		Kind:        CardImmuneInstant,
		Tag:         "complement",
		Effect:      ImmuneEffect{Kind: EffectPercentDefense, Value: 25},
	}
}

func Fever() Card {
	return Card{
		Name:        "Fever",
		Description: "Raises body temperature to scorch the pathogen.",
		Kind:        CardImmuneInstant,
		Tag:         "fever",
		Effect:      ImmuneEffect{Kind: EffectDamage, Value: 5},
	}
}

func Antibody() Card {
	return Card{
		Name:        "Antibody",
		Description: "Marks the pathogen for destruction. Needs a Helper T Cell this turn.",
		Kind:        CardImmuneCombo,
		Tag:         "antibody",
		Partner:     "helper_t",
		Effect:      ImmuneEffect{Kind: EffectDamage, Value: 12},
	}
}

func KillerTCell() Card {
	return Card{
		Name:        "Killer T Cell",
		Description: "Hunts infected cells. Needs a Helper T Cell this turn.",
		Kind:        CardImmuneCombo,
		Tag:         "killer_t",
		Partner:     "helper_t",
		Effect:      ImmuneEffect{Kind: EffectDamage, Value: 15},
	}
}

func MemoryBCell() Card {
	return Card{
		Name:        "Memory B Cell",
		Description: "Remembers the pathogen and halves its attacks. Needs an Antibody this turn.",
		Kind:        CardImmuneCombo,
		Tag:         "memory_b",
		Partner:     "antibody",
		Effect:      ImmuneEffect{Kind: EffectPercentDefense, Value: 50},
	}
}

// --- Items ---

func VaccineBooster() Card {
	return Card{
		Name:        "Vaccine Booster",
		Description: "Doubles the next non-item card you play.",
		Kind:        CardItem,
		Tag:         "booster",
		Item:        ItemBoost,
		Cost:        3,
	}
}

func VitaminC() Card {
	return Card{
		Name:        "Vitamin C",
		Description: "Restores 10 health.",
		Kind:        CardItem,
		Tag:         "vitamin_c",
		Item:        ItemRestore,
		Power:       10,
		Cost:        2,
	}
}

func GoodSleep() Card {
	return Card{
		Name:        "Good Sleep",
		Description: "Draw 2 cards.",
		Kind:        CardItem,
		Tag:         "sleep",
		Item:        ItemDraw,
		Power:       2,
		Cost:        2,
	}
}

func FaceMask() Card {
	return Card{
		Name:        "Face Mask",
		Description: "Blocks 30% of incoming damage until your next turn.",
		Kind:        CardItem,
		Tag:         "mask",
		Item:        ItemShield,
		Power:       30,
		Cost:        3,
	}
}

// --- Pathogens ---

func Rhinovirus() *PathogenTemplate {
	t := NewPathogenTemplate("Rhinovirus", 30, 5, 1, 2)
	t.Description = "The common cold. Attacks every turn."
	return t
}

func Influenza() *PathogenTemplate {
	t := NewPathogenTemplate("Influenza", 50, 8, 2, 3,
		AbilitySpec{Kind: AbilityExtraDamage, Interval: 3, Value: 4},
	)
	t.Description = "Strikes every other turn and spikes every third."
	return t
}

func Staphylococcus() *PathogenTemplate {
	t := NewPathogenTemplate("Staphylococcus", 60, 6, 1, 3,
		AbilitySpec{Kind: AbilityRegeneration, Interval: 2, Value: 5},
	)
	t.Description = "Regenerates every second turn."
	return t
}

func Candida() *PathogenTemplate {
	t := NewPathogenTemplate("Candida", 45, 7, 2, 3,
		AbilitySpec{Kind: AbilityBlockCards, Interval: 2, TargetKinds: []CardKind{CardHeal}},
	)
	t.Description = "Periodically suppresses healing."
	return t
}

func Salmonella() *PathogenTemplate {
	t := NewPathogenTemplate("Salmonella", 40, 9, 3, 2,
		AbilitySpec{Kind: AbilityExtraDamage, Interval: 2, Value: 3},
	)
	t.Description = "Slow but heavy hitter."
	return t
}

func HIV() *PathogenTemplate {
	t := NewPathogenTemplate("HIV", 80, 10, 2, 5,
		AbilitySpec{Kind: AbilityBlockCards, Interval: 3, TargetKinds: []CardKind{CardImmuneCombo, CardImmuneInstant}},
		AbilitySpec{Kind: AbilityMutation, Interval: 4, Value: 10},
	)
	t.Description = "Disables the adaptive response and mutates."
	return t
}
