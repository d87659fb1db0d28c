package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/application/common"
	"github.com/attritiongame/attrition-core/internal/application/construction/commands"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/internal/infrastructure/database"
)

const bddEmpireID = 1

type constructionContext struct {
	db         *gorm.DB
	clock      *shared.MockClock
	empireRepo *persistence.GormEmpireRepository
	baseRepo   *persistence.GormBaseRepository
	queueRepo  *persistence.GormQueueRepository
	resolver   *catalog.Resolver
	calculator *base.Calculator
	rules      common.Rules

	baseCoord    string
	lastItem     *queue.Item
	lastErr      error
	lastFinalize *constructionTypes.FinalizeDueItemsResponse
	lastRefund   int64
}

func (ctx *constructionContext) reset() {
	db, err := database.NewTestConnection()
	if err != nil {
		panic(fmt.Errorf("failed to open test database: %w", err))
	}

	ctx.db = db
	ctx.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx.empireRepo = persistence.NewGormEmpireRepository(db)
	ctx.baseRepo = persistence.NewGormBaseRepository(db)
	ctx.resolver = catalog.NewResolver()
	ctx.queueRepo = persistence.NewGormQueueRepository(db, ctx.resolver)
	ctx.calculator = base.NewCalculator(ctx.resolver)
	ctx.rules = common.Rules{}

	ctx.baseCoord = ""
	ctx.lastItem = nil
	ctx.lastErr = nil
	ctx.lastFinalize = nil
	ctx.lastRefund = 0
}

func (ctx *constructionContext) startHandler() *commands.StartConstructionHandler {
	return commands.NewStartConstructionHandler(
		ctx.empireRepo, ctx.baseRepo, ctx.queueRepo, ctx.resolver, ctx.calculator, ctx.rules, ctx.clock,
	)
}

// Given steps

func (ctx *constructionContext) anEmpireWithCredits(credits int64) error {
	emp, err := empire.NewEmpire(shared.MustNewEmpireID(bddEmpireID), "BDD Empire", credits, ctx.clock)
	if err != nil {
		return err
	}
	return ctx.empireRepo.Add(context.Background(), emp)
}

func (ctx *constructionContext) aBaseWithStructures(coord string, table *godog.Table) error {
	ctx.baseCoord = coord
	b, err := base.NewBase(shared.MustNewCoordinate(coord), shared.MustNewEmpireID(bddEmpireID), "BDD Base")
	if err != nil {
		return err
	}
	if err := ctx.baseRepo.Add(context.Background(), b); err != nil {
		return err
	}

	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		key, err := catalog.ParseKey(row.Cells[0].Value)
		if err != nil {
			return err
		}
		level, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		s := base.Structure{Key: key, Level: level, Active: true}
		if err := ctx.baseRepo.UpsertStructure(context.Background(), b.EmpireID(), b.Coord(), s); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *constructionContext) theBaseAllowsActiveItems(max int) error {
	ctx.rules = common.Rules{MaxActivePerBase: max}
	return nil
}

// When steps

func (ctx *constructionContext) constructionIsStarted(key string) error {
	resp, err := ctx.startHandler().Handle(context.Background(), &commands.StartConstructionCommand{
		EmpireID: bddEmpireID, BaseCoord: ctx.baseCoord, CatalogKey: key,
	})
	ctx.lastErr = err
	if err != nil {
		return nil
	}
	ctx.lastItem = resp.(*commands.StartConstructionResponse).Item
	return nil
}

func (ctx *constructionContext) minutesPassAndSweep(minutes int) error {
	ctx.clock.Advance(time.Duration(minutes) * time.Minute)
	handler := commands.NewFinalizeDueItemsHandler(
		ctx.empireRepo, ctx.baseRepo, ctx.queueRepo, ctx.resolver, ctx.calculator, ctx.rules, ctx.clock,
	)
	resp, err := handler.Handle(context.Background(), &commands.FinalizeDueItemsCommand{
		EmpireID: bddEmpireID, BaseCoord: ctx.baseCoord,
	})
	if err != nil {
		return err
	}
	ctx.lastFinalize = resp.(*commands.FinalizeDueItemsResponse)
	return nil
}

func (ctx *constructionContext) thePendingItemIsCancelled() error {
	if ctx.lastItem == nil {
		return fmt.Errorf("no item to cancel")
	}
	handler := commands.NewCancelQueueItemHandler(ctx.empireRepo, ctx.queueRepo, ctx.clock)
	resp, err := handler.Handle(context.Background(), &commands.CancelQueueItemCommand{
		QueueItemID: ctx.lastItem.ID(), EmpireID: bddEmpireID,
	})
	if err != nil {
		return err
	}
	ctx.lastRefund = resp.(*commands.CancelQueueItemResponse).RefundedCredits
	return nil
}

// Then steps

func (ctx *constructionContext) theSubmissionSucceeds(status string, cost int64) error {
	if ctx.lastErr != nil {
		return fmt.Errorf("submission failed: %w", ctx.lastErr)
	}
	if ctx.lastItem == nil {
		return fmt.Errorf("no item returned")
	}
	if string(ctx.lastItem.Status()) != status {
		return fmt.Errorf("expected status %s, got %s", status, ctx.lastItem.Status())
	}
	if ctx.lastItem.CreditsCost() != cost {
		return fmt.Errorf("expected cost %d, got %d", cost, ctx.lastItem.CreditsCost())
	}
	return nil
}

func (ctx *constructionContext) theSubmissionFailsWithInsufficientCapacity() error {
	var capErr *shared.InsufficientCapacityError
	if !errors.As(ctx.lastErr, &capErr) {
		return fmt.Errorf("expected InsufficientCapacityError, got %v", ctx.lastErr)
	}
	return nil
}

func (ctx *constructionContext) theEmpireBalanceIs(credits int64) error {
	emp, err := ctx.empireRepo.FindByID(context.Background(), shared.MustNewEmpireID(bddEmpireID))
	if err != nil {
		return err
	}
	if emp.Credits() != credits {
		return fmt.Errorf("expected balance %d, got %d", credits, emp.Credits())
	}
	return nil
}

func (ctx *constructionContext) itemsComplete(count int) error {
	if ctx.lastFinalize == nil {
		return fmt.Errorf("no sweep has run")
	}
	if ctx.lastFinalize.Completed != count {
		return fmt.Errorf("expected %d completions, got %d", count, ctx.lastFinalize.Completed)
	}
	return nil
}

func (ctx *constructionContext) theStructureIsAtLevel(key string, level int) error {
	b, err := ctx.baseRepo.FindByCoord(context.Background(), shared.MustNewCoordinate(ctx.baseCoord))
	if err != nil {
		return err
	}
	parsed, err := catalog.ParseKey(key)
	if err != nil {
		return err
	}
	if b.StructureLevel(parsed) != level {
		return fmt.Errorf("expected %s at level %d, got %d", key, level, b.StructureLevel(parsed))
	}
	return nil
}

func (ctx *constructionContext) creditsAreRefunded(credits int64) error {
	if ctx.lastRefund != credits {
		return fmt.Errorf("expected refund of %d, got %d", credits, ctx.lastRefund)
	}
	return nil
}

func InitializeConstructionScenario(sc *godog.ScenarioContext) {
	constructionCtx := &constructionContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		constructionCtx.reset()
		return ctx, nil
	})

	sc.Step(`^an empire with (\d+) credits$`, constructionCtx.anEmpireWithCredits)
	sc.Step(`^a base at "([^"]*)" with these structures:$`, constructionCtx.aBaseWithStructures)
	sc.Step(`^the base allows (\d+) active items? at a time$`, constructionCtx.theBaseAllowsActiveItems)
	sc.Step(`^construction of "([^"]*)" is started$`, constructionCtx.constructionIsStarted)
	sc.Step(`^(\d+) (?:more )?minutes pass and the base is swept$`, constructionCtx.minutesPassAndSweep)
	sc.Step(`^the pending item is cancelled$`, constructionCtx.thePendingItemIsCancelled)
	sc.Step(`^the submission succeeds with an active item costing (\d+) credits$`, func(cost int64) error {
		return constructionCtx.theSubmissionSucceeds("ACTIVE", cost)
	})
	sc.Step(`^the submission succeeds with a pending item costing (\d+) credits$`, func(cost int64) error {
		return constructionCtx.theSubmissionSucceeds("PENDING", cost)
	})
	sc.Step(`^the submission fails with insufficient capacity$`, constructionCtx.theSubmissionFailsWithInsufficientCapacity)
	sc.Step(`^the empire balance is (\d+) credits$`, constructionCtx.theEmpireBalanceIs)
	sc.Step(`^(\d+) items? completes?$`, constructionCtx.itemsComplete)
	sc.Step(`^the structure "([^"]*)" is at level (\d+)$`, constructionCtx.theStructureIsAtLevel)
	sc.Step(`^(\d+) credits are refunded$`, constructionCtx.creditsAreRefunded)
}
