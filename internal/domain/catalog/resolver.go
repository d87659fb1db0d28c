package catalog

import (
	"math"
	"sort"

	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Resolver answers static cost and spec lookups against the in-memory
// catalog table. It is pure and read-only: no I/O after construction, safe
// for concurrent use.
type Resolver struct {
	specs map[Key]Spec
}

// NewResolver creates a Resolver over the built-in catalog table
func NewResolver() *Resolver {
	return &Resolver{specs: specTable}
}

// GetSpec returns the catalog record for a key
func (r *Resolver) GetSpec(key Key) (Spec, error) {
	spec, ok := r.specs[key]
	if !ok {
		return Spec{}, shared.NewNotFoundError("catalog entry", key.String())
	}
	return spec, nil
}

// CostForLevel returns the credits cost to reach the given level of an
// entry. Levels start at 1; for units the "level" is the fleet count and the
// curve is flat.
func (r *Resolver) CostForLevel(key Key, level int) (int64, error) {
	if level < 1 {
		return 0, shared.NewInvalidArgumentError("level", "must be at least 1")
	}
	spec, err := r.GetSpec(key)
	if err != nil {
		return 0, err
	}
	// Accumulate by repeated multiplication: math.Pow(1.7, 2) comes out a
	// hair under 2.89 and rounds 722.5 the wrong way.
	cost := float64(spec.BaseCost)
	for i := 1; i < level; i++ {
		cost *= spec.GrowthFactor
	}
	return int64(math.Round(cost)), nil
}

// Technologies returns all technology specs that boost the given rate
// family, used by the capacity calculator to fold tech bonuses in.
func (r *Resolver) Technologies(family RateKind) []Spec {
	var specs []Spec
	for _, spec := range r.specs {
		if spec.Kind == KindTechnology && spec.Boosts == family {
			specs = append(specs, spec)
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Key < specs[j].Key })
	return specs
}

// Keys returns all catalog keys in deterministic order
func (r *Resolver) Keys() []Key {
	keys := make([]Key, 0, len(r.specs))
	for key := range r.specs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
