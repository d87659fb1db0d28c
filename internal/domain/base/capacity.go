package base

import (
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
)

// CapacitySnapshot is the computed throughput of a base at a point in time.
// It is never persisted or cached beyond a single logical operation: it
// depends on structure levels and tech levels that mutate underneath it.
type CapacitySnapshot struct {
	ConstructionRate float64
	ProductionRate   float64
	ResearchRate     float64
	NetEnergy        int
}

// RateFor returns the rate that schedules queue items of the given kind:
// structures and defenses draw on construction, units on production,
// technologies on research.
func (s CapacitySnapshot) RateFor(kind catalog.Kind) float64 {
	switch kind {
	case catalog.KindUnit:
		return s.ProductionRate
	case catalog.KindTechnology:
		return s.ResearchRate
	default:
		return s.ConstructionRate
	}
}

// Calculator aggregates a base's active structures and the owning empire's
// technology levels into a CapacitySnapshot.
type Calculator struct {
	catalog *catalog.Resolver
}

// NewCalculator creates a capacity calculator over a catalog resolver
func NewCalculator(resolver *catalog.Resolver) *Calculator {
	return &Calculator{catalog: resolver}
}

// techMultiplier folds every technology boosting the given rate family into
// a single multiplier: each researched level adds BonusPerLevel.
func (c *Calculator) techMultiplier(family catalog.RateKind, techLevels map[catalog.Key]int) float64 {
	mult := 1.0
	for _, tech := range c.catalog.Technologies(family) {
		if level := techLevels[tech.Key]; level > 0 {
			mult *= 1.0 + float64(level)*tech.BonusPerLevel
		}
	}
	return mult
}

// Snapshot computes the base's current throughput rates and net energy.
//
// Energy shortfall policy: when consumption exceeds production, all
// throughput rates scale by the available-energy fraction
// (produced/consumed, clamped to [0,1]) and so floor at zero. NetEnergy is
// reported unclamped so callers can show the deficit.
func (c *Calculator) Snapshot(b *Base, techLevels map[catalog.Key]int) (CapacitySnapshot, error) {
	var construction, production, research float64
	var produced, consumed float64

	for _, s := range b.Structures() {
		if !s.Active || s.Level <= 0 {
			continue
		}
		spec, err := c.catalog.GetSpec(s.Key)
		if err != nil {
			return CapacitySnapshot{}, err
		}
		levels := float64(s.Level)
		construction += spec.ConstructionRate * levels
		production += spec.ProductionRate * levels
		research += spec.ResearchRate * levels
		if spec.IsProducer() {
			produced += float64(spec.EnergyDelta) * levels
		} else {
			consumed += float64(-spec.EnergyDelta) * levels
		}
	}

	construction *= c.techMultiplier(catalog.RateConstruction, techLevels)
	production *= c.techMultiplier(catalog.RateProduction, techLevels)
	research *= c.techMultiplier(catalog.RateResearch, techLevels)
	produced *= c.techMultiplier(catalog.RateEnergy, techLevels)

	fraction := energyFraction(produced, consumed)

	return CapacitySnapshot{
		ConstructionRate: construction * fraction,
		ProductionRate:   production * fraction,
		ResearchRate:     research * fraction,
		NetEnergy:        int(produced - consumed),
	}, nil
}

// IncomeRate computes the base's steady-state income in credits/hour.
// Income degrades under energy shortfall the same way throughput does.
func (c *Calculator) IncomeRate(b *Base, techLevels map[catalog.Key]int) (float64, error) {
	var income float64
	var produced, consumed float64

	for _, s := range b.Structures() {
		if !s.Active || s.Level <= 0 {
			continue
		}
		spec, err := c.catalog.GetSpec(s.Key)
		if err != nil {
			return 0, err
		}
		levels := float64(s.Level)
		income += spec.EconomyRate * levels
		if spec.IsProducer() {
			produced += float64(spec.EnergyDelta) * levels
		} else {
			consumed += float64(-spec.EnergyDelta) * levels
		}
	}

	income *= c.techMultiplier(catalog.RateEconomy, techLevels)
	produced *= c.techMultiplier(catalog.RateEnergy, techLevels)

	return income * energyFraction(produced, consumed), nil
}

// energyFraction is the fraction of demanded energy actually available,
// clamped to [0,1]. Full supply (or no consumers) yields 1.
func energyFraction(produced, consumed float64) float64 {
	if consumed <= 0 || produced >= consumed {
		return 1.0
	}
	if produced <= 0 {
		return 0.0
	}
	return produced / consumed
}
