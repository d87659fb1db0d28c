package persistence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/test/helpers"
)

const testCoord = "A00:10:22:04"

func newQueueItem(t *testing.T, key catalog.Key, targetLevel, slot int, cost int64) *queue.Item {
	t.Helper()
	item, err := queue.NewItem(
		shared.MustNewEmpireID(1),
		shared.MustNewCoordinate(testCoord),
		key,
		targetLevel,
		slot,
		cost,
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return item
}

func TestQueueRepository_InsertAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	item := newQueueItem(t, catalog.ConstructionYards, 1, 0, 250)

	// Act
	created, err := repo.InsertIfAbsent(context.Background(), item)
	require.NoError(t, err)
	require.True(t, created)

	found, err := repo.FindByID(context.Background(), item.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, item.ID(), found.ID())
	assert.Equal(t, item.IdentityKey(), found.IdentityKey())
	assert.Equal(t, queue.StatusPending, found.Status())
	assert.Equal(t, int64(250), found.CreditsCost())
}

func TestQueueRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())

	// Act
	_, err := repo.FindByID(context.Background(), "no-such-item")

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestQueueRepository_InsertIfAbsent_SecondLoses(t *testing.T) {
	// Arrange - two distinct items carrying the same identity key model two
	// racing submissions that observed the same slot count
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	first := newQueueItem(t, catalog.ConstructionYards, 1, 0, 250)
	second := newQueueItem(t, catalog.ConstructionYards, 1, 0, 250)
	require.Equal(t, first.IdentityKey(), second.IdentityKey())

	// Act
	firstCreated, err := repo.InsertIfAbsent(context.Background(), first)
	require.NoError(t, err)
	secondCreated, err := repo.InsertIfAbsent(context.Background(), second)
	require.NoError(t, err)

	// Assert - exactly one winner, and the stored row is the winner's
	assert.True(t, firstCreated)
	assert.False(t, secondCreated)
	found, err := repo.FindByID(context.Background(), first.ID())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), found.ID())
	_, err = repo.FindByID(context.Background(), second.ID())
	assert.Error(t, err)
}

func TestQueueRepository_InsertIfAbsent_ConcurrentRace(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every goroutine on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())

	const racers = 8
	items := make([]*queue.Item, racers)
	for i := range items {
		items[i] = newQueueItem(t, catalog.Shipyards, 1, 0, 400)
	}

	// Act - all racers contend for the same identity key
	var wg sync.WaitGroup
	results := make([]bool, racers)
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.InsertIfAbsent(context.Background(), items[i])
		}(i)
	}
	wg.Wait()

	// Assert - exactly one winner
	winners := 0
	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		if results[i] {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestQueueRepository_CountSlots_ExcludesCancelled(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	ctx := context.Background()
	empireID := shared.MustNewEmpireID(1)
	coord := shared.MustNewCoordinate(testCoord)

	first := newQueueItem(t, catalog.Fighters, 1, 0, 100)
	second := newQueueItem(t, catalog.Fighters, 2, 1, 100)
	for _, item := range []*queue.Item{first, second} {
		created, err := repo.InsertIfAbsent(ctx, item)
		require.NoError(t, err)
		require.True(t, created)
	}

	count, err := repo.CountSlots(ctx, empireID, coord, catalog.Fighters)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Act - cancelling retires the second slot
	require.NoError(t, second.Cancel(time.Now()))
	committed, err := repo.CancelIfPending(ctx, second)
	require.NoError(t, err)
	require.True(t, committed)

	count, err = repo.CountSlots(ctx, empireID, coord, catalog.Fighters)

	// Assert - the cancelled slot drops out of the count, but its ordinal
	// stays occupied: re-inserting the same identity key is refused
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	retry := newQueueItem(t, catalog.Fighters, 2, 1, 100)
	created, err := repo.InsertIfAbsent(ctx, retry)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestQueueRepository_CountOutstanding(t *testing.T) {
	// Arrange - one active, one pending, one cancelled for the same key
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	active := newQueueItem(t, catalog.SolarPlants, 1, 0, 150)
	pending := newQueueItem(t, catalog.SolarPlants, 2, 1, 225)
	cancelled := newQueueItem(t, catalog.SolarPlants, 3, 2, 338)
	for _, item := range []*queue.Item{active, pending, cancelled} {
		created, err := repo.InsertIfAbsent(ctx, item)
		require.NoError(t, err)
		require.True(t, created)
	}

	require.NoError(t, active.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(time.Hour)}))
	committed, err := repo.ActivateIfPending(ctx, active)
	require.NoError(t, err)
	require.True(t, committed)

	require.NoError(t, cancelled.Cancel(now))
	committed, err = repo.CancelIfPending(ctx, cancelled)
	require.NoError(t, err)
	require.True(t, committed)

	// Act
	count, err := repo.CountOutstanding(ctx, shared.MustNewEmpireID(1), shared.MustNewCoordinate(testCoord), catalog.SolarPlants)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQueueRepository_CancelIfPending_RefusesActive(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := newQueueItem(t, catalog.ConstructionYards, 1, 0, 250)
	created, err := repo.InsertIfAbsent(ctx, item)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, item.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(time.Hour)}))
	committed, err := repo.ActivateIfPending(ctx, item)
	require.NoError(t, err)
	require.True(t, committed)

	// Act - the conditional write finds no pending row to flip
	cancelledAt := now.Add(time.Minute)
	stale := queue.ReconstructItem(
		item.ID(), item.EmpireID(), item.BaseCoord(), item.CatalogKey(),
		item.TargetLevel(), item.Slot(), queue.StatusCancelled, item.CreditsCost(),
		item.SubmittedAt(), nil, nil, nil, &cancelledAt,
	)
	committed, err = repo.CancelIfPending(ctx, stale)

	// Assert
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestQueueRepository_ListDue(t *testing.T) {
	// Arrange - one item due, one still running, one pending
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	due := newQueueItem(t, catalog.ConstructionYards, 1, 0, 250)
	running := newQueueItem(t, catalog.SolarPlants, 1, 0, 150)
	pending := newQueueItem(t, catalog.ResearchLabs, 1, 0, 350)
	for _, item := range []*queue.Item{due, running, pending} {
		created, err := repo.InsertIfAbsent(ctx, item)
		require.NoError(t, err)
		require.True(t, created)
	}

	require.NoError(t, due.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(30 * time.Minute)}))
	committed, err := repo.ActivateIfPending(ctx, due)
	require.NoError(t, err)
	require.True(t, committed)

	require.NoError(t, running.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(2 * time.Hour)}))
	committed, err = repo.ActivateIfPending(ctx, running)
	require.NoError(t, err)
	require.True(t, committed)

	// Act - 31 minutes in, only the first item has elapsed
	items, err := repo.ListDue(ctx, shared.MustNewEmpireID(1), shared.MustNewCoordinate(testCoord), now.Add(31*time.Minute))

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, due.ID(), items[0].ID())
}

func TestQueueRepository_ListPendingUnscheduled(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older, err := queue.NewItem(shared.MustNewEmpireID(1), shared.MustNewCoordinate(testCoord),
		catalog.SolarPlants, 1, 0, 150, now)
	require.NoError(t, err)
	newer, err := queue.NewItem(shared.MustNewEmpireID(1), shared.MustNewCoordinate(testCoord),
		catalog.CrystalMines, 1, 0, 200, now.Add(time.Minute))
	require.NoError(t, err)
	for _, item := range []*queue.Item{newer, older} {
		created, err := repo.InsertIfAbsent(ctx, item)
		require.NoError(t, err)
		require.True(t, created)
	}

	// Act
	items, err := repo.ListPendingUnscheduled(ctx, shared.MustNewEmpireID(1), shared.MustNewCoordinate(testCoord))

	// Assert - submission order, not insert order
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID(), items[0].ID())
	assert.Equal(t, newer.ID(), items[1].ID())
}

func TestQueueRepository_FinalizeItem_IncrementsStructure(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	helpers.SeedEmpire(t, db, 1, 1000, clock)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{catalog.ConstructionYards: 1})

	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	baseRepo := persistence.NewGormBaseRepository(db)
	ctx := context.Background()
	now := clock.Now()

	item := newQueueItem(t, catalog.ConstructionYards, 2, 0, 425)
	created, err := repo.InsertIfAbsent(ctx, item)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, item.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(time.Hour)}))
	committed, err := repo.ActivateIfPending(ctx, item)
	require.NoError(t, err)
	require.True(t, committed)
	require.NoError(t, item.Complete(now.Add(time.Hour)))

	// Act
	won, err := repo.FinalizeItem(ctx, item)

	// Assert
	require.NoError(t, err)
	assert.True(t, won)

	b, err := baseRepo.FindByCoord(ctx, shared.MustNewCoordinate(testCoord))
	require.NoError(t, err)
	assert.Equal(t, 2, b.StructureLevel(catalog.ConstructionYards))

	stored, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, queue.StatusCompleted, stored.Status())
}

func TestQueueRepository_FinalizeItem_Idempotent(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	helpers.SeedEmpire(t, db, 1, 1000, clock)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{catalog.SolarPlants: 1})

	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	baseRepo := persistence.NewGormBaseRepository(db)
	ctx := context.Background()
	now := clock.Now()

	item := newQueueItem(t, catalog.SolarPlants, 2, 0, 225)
	created, err := repo.InsertIfAbsent(ctx, item)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, item.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(time.Hour)}))
	committed, err := repo.ActivateIfPending(ctx, item)
	require.NoError(t, err)
	require.True(t, committed)
	require.NoError(t, item.Complete(now.Add(time.Hour)))

	// Act - a redundant sweep pass finalizes the same item again
	won, err := repo.FinalizeItem(ctx, item)
	require.NoError(t, err)
	require.True(t, won)
	wonAgain, err := repo.FinalizeItem(ctx, item)
	require.NoError(t, err)

	// Assert - the level increment applied exactly once
	assert.False(t, wonAgain)
	b, err := baseRepo.FindByCoord(ctx, shared.MustNewCoordinate(testCoord))
	require.NoError(t, err)
	assert.Equal(t, 2, b.StructureLevel(catalog.SolarPlants))
}

func TestQueueRepository_FinalizeItem_ResearchIncrementsTechLevel(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	helpers.SeedEmpire(t, db, 1, 5000, clock)
	helpers.SeedBase(t, db, 1, testCoord, map[catalog.Key]int{catalog.ResearchLabs: 1})

	repo := persistence.NewGormQueueRepository(db, catalog.NewResolver())
	empireRepo := persistence.NewGormEmpireRepository(db)
	ctx := context.Background()
	now := clock.Now()

	item := newQueueItem(t, catalog.EnergyTech, 1, 0, 800)
	created, err := repo.InsertIfAbsent(ctx, item)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, item.Activate(queue.Schedule{StartedAt: now, CompletesAt: now.Add(time.Hour)}))
	committed, err := repo.ActivateIfPending(ctx, item)
	require.NoError(t, err)
	require.True(t, committed)
	require.NoError(t, item.Complete(now.Add(time.Hour)))

	// Act
	won, err := repo.FinalizeItem(ctx, item)

	// Assert - research raises the empire's tech level, not a structure
	require.NoError(t, err)
	assert.True(t, won)

	emp, err := empireRepo.FindByID(ctx, shared.MustNewEmpireID(1))
	require.NoError(t, err)
	assert.Equal(t, 1, emp.TechLevel(catalog.EnergyTech))
}
