package catalog

// RateKind names one of the throughput families a base exposes. Technologies
// declare which family their per-level bonus multiplies.
type RateKind string

const (
	RateConstruction RateKind = "CONSTRUCTION"
	RateProduction   RateKind = "PRODUCTION"
	RateResearch     RateKind = "RESEARCH"
	RateEconomy      RateKind = "ECONOMY"
	RateEnergy       RateKind = "ENERGY"
	RateNone         RateKind = ""
)

// Requirement is a prerequisite that must be met before an entry can be
// queued: the named key must already be at or above the given level.
type Requirement struct {
	Key   Key
	Level int
}

// Spec is the static catalog record for one entity type. All numeric curves
// (cost growth, energy deltas, per-level rate contributions, tech bonus
// percentages) are data here, not logic: balancing changes edit this table.
type Spec struct {
	Key  Key
	Kind Kind

	// BaseCost is the credits cost at level 1; each further level costs
	// BaseCost * GrowthFactor^(level-1), rounded to whole credits.
	BaseCost     int64
	GrowthFactor float64

	// EnergyDelta is the net energy contribution per level. Positive
	// entries are producers (plants), negative entries consume.
	EnergyDelta int

	// Per-level contributions to the base's throughput rates and to the
	// empire's steady-state income, all in credits/hour.
	ConstructionRate float64
	ProductionRate   float64
	ResearchRate     float64
	EconomyRate      float64

	// Boosts and BonusPerLevel apply to technologies only: each researched
	// level multiplies the named rate family by (1 + level*BonusPerLevel).
	Boosts        RateKind
	BonusPerLevel float64

	Prerequisites []Requirement
}

// IsProducer reports whether the entry contributes energy rather than
// consuming it.
func (s Spec) IsProducer() bool {
	return s.EnergyDelta > 0
}
