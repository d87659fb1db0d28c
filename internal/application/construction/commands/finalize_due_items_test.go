package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attritiongame/attrition-core/internal/application/common"
	"github.com/attritiongame/attrition-core/internal/application/construction/commands"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/test/helpers"
)

func (e *env) finalizeHandler(rules common.Rules) *commands.FinalizeDueItemsHandler {
	return commands.NewFinalizeDueItemsHandler(
		e.empireRepo, e.baseRepo, e.queueRepo, e.resolver, e.calculator, rules, e.clock,
	)
}

func TestFinalizeDueItems_NothingDueYet(t *testing.T) {
	// Arrange - 180 credits at 500/hour finishes after 22 minutes
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 1000, e.clock)
	helpers.SeedBase(t, e.db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       1,
		catalog.ConstructionYards: 1,
	})
	ctx := context.Background()
	_, err := e.startHandler(common.Rules{}).Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "metal_refineries",
	})
	require.NoError(t, err)

	// Act - sweep at the 15 minute mark
	e.clock.Advance(15 * time.Minute)
	resp, err := e.finalizeHandler(common.Rules{}).Handle(ctx, &commands.FinalizeDueItemsCommand{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert - nothing applied, structure untouched
	require.NoError(t, err)
	finalizeResp := resp.(*commands.FinalizeDueItemsResponse)
	assert.Equal(t, 0, finalizeResp.Completed)

	b, err := e.baseRepo.FindByCoord(ctx, shared.MustNewCoordinate(testCoord))
	require.NoError(t, err)
	assert.Equal(t, 0, b.StructureLevel(catalog.MetalRefineries))
}

func TestFinalizeDueItems_CompletesDueWork(t *testing.T) {
	// Arrange
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 1000, e.clock)
	helpers.SeedBase(t, e.db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       1,
		catalog.ConstructionYards: 1,
	})
	ctx := context.Background()
	startResp, err := e.startHandler(common.Rules{}).Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "metal_refineries",
	})
	require.NoError(t, err)
	item := startResp.(*commands.StartConstructionResponse).Item

	// Act - sweep past the completion time
	e.clock.Advance(23 * time.Minute)
	resp, err := e.finalizeHandler(common.Rules{}).Handle(ctx, &commands.FinalizeDueItemsCommand{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert - item completed and the structure level applied
	require.NoError(t, err)
	assert.Equal(t, 1, resp.(*commands.FinalizeDueItemsResponse).Completed)

	b, err := e.baseRepo.FindByCoord(ctx, shared.MustNewCoordinate(testCoord))
	require.NoError(t, err)
	assert.Equal(t, 1, b.StructureLevel(catalog.MetalRefineries))

	stored, err := e.queueRepo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, queue.StatusCompleted, stored.Status())
}

func TestFinalizeDueItems_SweepIsIdempotent(t *testing.T) {
	// Arrange
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 1000, e.clock)
	helpers.SeedBase(t, e.db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       1,
		catalog.ConstructionYards: 1,
	})
	ctx := context.Background()
	_, err := e.startHandler(common.Rules{}).Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "metal_refineries",
	})
	require.NoError(t, err)

	e.clock.Advance(30 * time.Minute)
	handler := e.finalizeHandler(common.Rules{})
	first, err := handler.Handle(ctx, &commands.FinalizeDueItemsCommand{EmpireID: 1, BaseCoord: testCoord})
	require.NoError(t, err)
	require.Equal(t, 1, first.(*commands.FinalizeDueItemsResponse).Completed)

	// Act - run the same sweep again
	second, err := handler.Handle(ctx, &commands.FinalizeDueItemsCommand{EmpireID: 1, BaseCoord: testCoord})

	// Assert - the level increment applied exactly once
	require.NoError(t, err)
	assert.Equal(t, 0, second.(*commands.FinalizeDueItemsResponse).Completed)

	b, err := e.baseRepo.FindByCoord(ctx, shared.MustNewCoordinate(testCoord))
	require.NoError(t, err)
	assert.Equal(t, 1, b.StructureLevel(catalog.MetalRefineries))
}

func TestFinalizeDueItems_PromotesPendingIntoFreedSlot(t *testing.T) {
	// Arrange - capped base: one item runs, one waits
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 10000, e.clock)
	helpers.SeedBase(t, e.db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       2,
		catalog.ConstructionYards: 1,
	})
	rules := common.Rules{MaxActivePerBase: 1}
	ctx := context.Background()
	handler := e.startHandler(rules)

	_, err := handler.Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "crystal_mines",
	})
	require.NoError(t, err)
	pendingResp, err := handler.Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "metal_refineries",
	})
	require.NoError(t, err)
	pending := pendingResp.(*commands.StartConstructionResponse).Item
	require.Equal(t, queue.StatusPending, pending.Status())

	// Act - crystal mines (200 credits at 500/hour) is due after 24 minutes
	e.clock.Advance(25 * time.Minute)
	resp, err := e.finalizeHandler(rules).Handle(ctx, &commands.FinalizeDueItemsCommand{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert - completion freed the slot and the pending item was scheduled
	require.NoError(t, err)
	finalizeResp := resp.(*commands.FinalizeDueItemsResponse)
	assert.Equal(t, 1, finalizeResp.Completed)
	assert.Equal(t, 1, finalizeResp.Promoted)

	stored, err := e.queueRepo.FindByID(ctx, pending.ID())
	require.NoError(t, err)
	assert.Equal(t, queue.StatusActive, stored.Status())
	require.NotNil(t, stored.CompletesAt())
	assert.True(t, stored.CompletesAt().After(e.clock.Now()))
}

func TestFinalizeDueItems_PendingStaysWhenSlotStillBusy(t *testing.T) {
	// Arrange - the running item is far from done
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 10000, e.clock)
	helpers.SeedBase(t, e.db, 1, testCoord, map[catalog.Key]int{
		catalog.SolarPlants:       2,
		catalog.ConstructionYards: 1,
	})
	rules := common.Rules{MaxActivePerBase: 1}
	ctx := context.Background()
	handler := e.startHandler(rules)

	// Research labs cost 350 at 500/hour: 42 minutes of work
	_, err := handler.Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "research_labs",
	})
	require.NoError(t, err)
	pendingResp, err := handler.Handle(ctx, &commands.StartConstructionCommand{
		EmpireID: 1, BaseCoord: testCoord, CatalogKey: "metal_refineries",
	})
	require.NoError(t, err)
	pending := pendingResp.(*commands.StartConstructionResponse).Item

	// Act - sweep well before the active item is due
	e.clock.Advance(5 * time.Minute)
	resp, err := e.finalizeHandler(rules).Handle(ctx, &commands.FinalizeDueItemsCommand{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert
	require.NoError(t, err)
	finalizeResp := resp.(*commands.FinalizeDueItemsResponse)
	assert.Equal(t, 0, finalizeResp.Completed)
	assert.Equal(t, 0, finalizeResp.Promoted)

	stored, err := e.queueRepo.FindByID(ctx, pending.ID())
	require.NoError(t, err)
	assert.Equal(t, queue.StatusPending, stored.Status())
}

func TestFinalizeDueItems_ForeignBase(t *testing.T) {
	// Arrange
	e := newEnv(t)
	helpers.SeedEmpire(t, e.db, 1, 0, e.clock)
	helpers.SeedEmpire(t, e.db, 2, 0, e.clock)
	helpers.SeedBase(t, e.db, 2, testCoord, nil)

	// Act
	_, err := e.finalizeHandler(common.Rules{}).Handle(context.Background(), &commands.FinalizeDueItemsCommand{
		EmpireID: 1, BaseCoord: testCoord,
	})

	// Assert
	var forbidden *shared.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}
