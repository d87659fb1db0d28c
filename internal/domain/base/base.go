package base

import (
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Structure is one building, defense battery or unit garrison at a base.
// For units the level is the fleet count rather than an upgrade tier.
type Structure struct {
	Key            catalog.Key
	Level          int
	Active         bool
	PendingUpgrade bool
}

// Base is a colonized location owned by exactly one empire
type Base struct {
	coord      shared.Coordinate
	empireID   shared.EmpireID
	name       string
	structures []Structure
}

// NewBase creates an empty base at a coordinate
func NewBase(coord shared.Coordinate, empireID shared.EmpireID, name string) (*Base, error) {
	if coord.IsZero() {
		return nil, shared.NewInvalidArgumentError("coordinate", "must not be zero")
	}
	if empireID.IsZero() {
		return nil, shared.NewInvalidArgumentError("empire_id", "must not be zero")
	}
	return &Base{coord: coord, empireID: empireID, name: name}, nil
}

// ReconstructBase rebuilds a base from persisted state. For repository use only.
func ReconstructBase(coord shared.Coordinate, empireID shared.EmpireID, name string, structures []Structure) *Base {
	return &Base{coord: coord, empireID: empireID, name: name, structures: structures}
}

func (b *Base) Coord() shared.Coordinate  { return b.coord }
func (b *Base) EmpireID() shared.EmpireID { return b.empireID }
func (b *Base) Name() string              { return b.name }
func (b *Base) Structures() []Structure   { return b.structures }

// IsOwnedBy reports whether the base belongs to the given empire
func (b *Base) IsOwnedBy(empireID shared.EmpireID) bool {
	return b.empireID.Equals(empireID)
}

// StructureLevel returns the current level of a structure at this base,
// zero when the structure has never been built.
func (b *Base) StructureLevel(key catalog.Key) int {
	for _, s := range b.structures {
		if s.Key == key {
			return s.Level
		}
	}
	return 0
}
