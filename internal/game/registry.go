package game

import (
	"fmt"
	"sort"
)

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() Card{
	"Macrophage":          Macrophage,
	"Neutrophil":          Neutrophil,
	"Natural Killer Cell": NaturalKillerCell,
	"Interferon":          Interferon,
	"Tissue Repair":       TissueRepair,
	"Mucus Barrier":       MucusBarrier,
	"Skin Barrier":        SkinBarrier,
	"Helper T Cell":       HelperTCell,
	"Complement System":   ComplementSystem,
	"Fever":               Fever,
	"Antibody":            Antibody,
	"Killer T Cell":       KillerTCell,
	"Memory B Cell":       MemoryBCell,
	"Vaccine Booster":     VaccineBooster,
	"Vitamin C":           VitaminC,
	"Good Sleep":          GoodSleep,
	"Face Mask":           FaceMask,
}

// PathogenRegistry maps pathogen names to their template constructors.
var PathogenRegistry = map[string]func() *PathogenTemplate{
	"Rhinovirus":     Rhinovirus,
	"Influenza":      Influenza,
	"Staphylococcus": Staphylococcus,
	"Candida":        Candida,
	"Salmonella":     Salmonella,
	"HIV":            HIV,
}

// LookupCard looks up a card by name.
// Panics if the card is not found.
func LookupCard(name string) Card {
	c, ok := FindCard(name)
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return c
}

// FindCard looks up a card by name.
func FindCard(name string) (Card, bool) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return Card{}, false
	}
	return ctor(), true
}

// FindPathogen looks up a pathogen template by name.
func FindPathogen(name string) (*PathogenTemplate, bool) {
	ctor, ok := PathogenRegistry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// CardNames returns all registered card names, sorted.
func CardNames() []string {
	names := make([]string, 0, len(CardRegistry))
	for n := range CardRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PathogenNames returns all registered pathogen names, sorted.
func PathogenNames() []string {
	names := make([]string, 0, len(PathogenRegistry))
	for n := range PathogenRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
