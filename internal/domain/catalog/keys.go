package catalog

import (
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Kind classifies a catalog entry. The kind determines which base capacity
// rate schedules the entry's queue items (construction, production or
// research) and what a completed item upgrades.
type Kind string

const (
	KindStructure  Kind = "STRUCTURE"
	KindDefense    Kind = "DEFENSE"
	KindUnit       Kind = "UNIT"
	KindTechnology Kind = "TECHNOLOGY"
)

// Key is a stable identifier for a building, defense, unit or technology
// type. The set of keys is closed: free-form strings are rejected at the
// resolver boundary instead of propagating as silent lookup misses.
type Key string

// Structures
const (
	SolarPlants       Key = "solar_plants"
	GasPlants         Key = "gas_plants"
	CrystalMines      Key = "crystal_mines"
	MetalRefineries   Key = "metal_refineries"
	ConstructionYards Key = "construction_yards"
	Shipyards         Key = "shipyards"
	ResearchLabs      Key = "research_labs"
	TradeHubs         Key = "trade_hubs"
)

// Defenses
const (
	PulseTurrets     Key = "pulse_turrets"
	PlasmaBatteries  Key = "plasma_batteries"
	ShieldGenerators Key = "shield_generators"
)

// Units
const (
	Fighters  Key = "fighters"
	Corvettes Key = "corvettes"
	Haulers   Key = "haulers"
)

// Technologies
const (
	EnergyTech       Key = "energy_tech"
	ConstructionTech Key = "construction_tech"
	ProductionTech   Key = "production_tech"
	ComputerTech     Key = "computer_tech"
	EconomyTech      Key = "economy_tech"
)

// String returns the stable string form of the key
func (k Key) String() string {
	return string(k)
}

// ParseKey validates a free-form string against the closed key set.
// Unknown strings return a NotFoundError rather than a zero Key, so route
// handlers can map them to a client error instead of propagating blanks.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return "", shared.NewInvalidArgumentError("catalog_key", "must not be empty")
	}
	key := Key(s)
	if _, ok := specTable[key]; !ok {
		return "", shared.NewNotFoundError("catalog entry", s)
	}
	return key, nil
}
