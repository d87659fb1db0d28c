package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// SeedEmpire persists a fresh empire with the given starting balance. The
// payout window opens at the clock's current time.
func SeedEmpire(t *testing.T, db *gorm.DB, id int, credits int64, clock shared.Clock) *empire.Empire {
	t.Helper()

	emp, err := empire.NewEmpire(shared.MustNewEmpireID(id), "Test Empire", credits, clock)
	require.NoError(t, err)

	repo := persistence.NewGormEmpireRepository(db)
	require.NoError(t, repo.Add(context.Background(), emp))
	return emp
}

// SeedBase persists a base with the given structures, all active
func SeedBase(t *testing.T, db *gorm.DB, empireID int, coord string, levels map[catalog.Key]int) *base.Base {
	t.Helper()

	b, err := base.NewBase(shared.MustNewCoordinate(coord), shared.MustNewEmpireID(empireID), "Test Base")
	require.NoError(t, err)

	repo := persistence.NewGormBaseRepository(db)
	require.NoError(t, repo.Add(context.Background(), b))
	for key, level := range levels {
		s := base.Structure{Key: key, Level: level, Active: true}
		require.NoError(t, repo.UpsertStructure(context.Background(), b.EmpireID(), b.Coord(), s))
	}

	reloaded, err := repo.FindByCoord(context.Background(), b.Coord())
	require.NoError(t, err)
	return reloaded
}

// SeedTechLevel records a researched technology level for an empire
func SeedTechLevel(t *testing.T, db *gorm.DB, empireID int, key catalog.Key, level int) {
	t.Helper()

	repo := persistence.NewGormEmpireRepository(db)
	for i := 0; i < level; i++ {
		require.NoError(t, repo.IncrementTechLevel(context.Background(), shared.MustNewEmpireID(empireID), key))
	}
}
