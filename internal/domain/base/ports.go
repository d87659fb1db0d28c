package base

import (
	"context"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Repository persists bases and their structures
type Repository interface {
	// FindByCoord loads a base with all of its structures.
	// Returns NotFoundError for uncolonized coordinates.
	FindByCoord(ctx context.Context, coord shared.Coordinate) (*Base, error)

	// ListByEmpire loads every base owned by an empire, structures included
	ListByEmpire(ctx context.Context, empireID shared.EmpireID) ([]*Base, error)

	// Add persists a new base and its initial structures
	Add(ctx context.Context, b *Base) error

	// UpsertStructure writes one structure row (insert or update)
	UpsertStructure(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, s Structure) error

	// IncrementStructureLevel bumps a structure by one level and activates
	// it, as a single atomic store operation. Creates the row at level 1
	// when the structure was never built.
	IncrementStructureLevel(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) error
}
