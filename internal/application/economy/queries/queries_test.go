package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/application/economy/queries"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/test/helpers"
)

const testCoord = "A00:10:22:04"

func setup(t *testing.T) (*gorm.DB, *persistence.GormEmpireRepository, *persistence.GormBaseRepository, *base.Calculator) {
	t.Helper()
	db := helpers.NewTestDB(t)
	return db,
		persistence.NewGormEmpireRepository(db),
		persistence.NewGormBaseRepository(db),
		base.NewCalculator(catalog.NewResolver())
}

func TestGetCapacities(t *testing.T) {
	// Arrange
	db, empireRepo, baseRepo, calculator := setup(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	helpers.SeedEmpire(t, db, 1, 1000, clock)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       1,
		catalog.ConstructionYards: 1,
	})
	handler := queries.NewGetCapacitiesHandler(empireRepo, baseRepo, calculator)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetCapacitiesQuery{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert
	require.NoError(t, err)
	caps := resp.(*queries.GetCapacitiesResponse)
	assert.Equal(t, 500.0, caps.Snapshot.ConstructionRate)
	assert.Equal(t, 10, caps.Snapshot.NetEnergy)
	assert.InDelta(t, 5.0, caps.IncomeRate, 0.001)
}

func TestGetCapacities_TechBonusApplied(t *testing.T) {
	// Arrange
	db, empireRepo, baseRepo, calculator := setup(t)
	helpers.SeedEmpire(t, db, 1, 1000, nil)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       1,
		catalog.ConstructionYards: 1,
	})
	helpers.SeedTechLevel(t, db, 1, catalog.ConstructionTech, 2)
	handler := queries.NewGetCapacitiesHandler(empireRepo, baseRepo, calculator)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetCapacitiesQuery{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 550.0, resp.(*queries.GetCapacitiesResponse).Snapshot.ConstructionRate, 0.001)
}

func TestGetCapacities_ForeignBase(t *testing.T) {
	// Arrange
	db, empireRepo, baseRepo, calculator := setup(t)
	helpers.SeedEmpire(t, db, 1, 0, nil)
	helpers.SeedEmpire(t, db, 2, 0, nil)
	helpers.SeedBase(t, db, 2, testCoord, nil)
	handler := queries.NewGetCapacitiesHandler(empireRepo, baseRepo, calculator)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetCapacitiesQuery{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert
	var forbidden *shared.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestGetEmpire(t *testing.T) {
	// Arrange
	db, empireRepo, baseRepo, calculator := setup(t)
	helpers.SeedEmpire(t, db, 1, 750, nil)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:  2,
		catalog.CrystalMines: 1,
	})
	helpers.SeedBase(t, db, 1, "A00:10:22:05", map[catalog.Key]int{
		catalog.SolarPlants: 2,
	})
	helpers.SeedTechLevel(t, db, 1, catalog.EnergyTech, 1)
	handler := queries.NewGetEmpireHandler(empireRepo, baseRepo, calculator)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetEmpireQuery{EmpireID: 1})

	// Assert
	require.NoError(t, err)
	summary := resp.(*queries.GetEmpireResponse)
	assert.Equal(t, "Test Empire", summary.Name)
	assert.Equal(t, int64(750), summary.Credits)
	assert.Equal(t, 2, summary.Bases)
	assert.InDelta(t, 50.0, summary.CreditsPerHour, 0.001)
	assert.Equal(t, 1, summary.TechLevels["energy_tech"])
}

func TestGetEmpire_NotFound(t *testing.T) {
	// Arrange
	_, empireRepo, baseRepo, calculator := setup(t)
	handler := queries.NewGetEmpireHandler(empireRepo, baseRepo, calculator)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetEmpireQuery{EmpireID: 9})

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
