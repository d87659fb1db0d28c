package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/application/economy/commands"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/internal/infrastructure/database"
)

const economyBaseCoord = "A00:10:22:04"

type economyContext struct {
	db         *gorm.DB
	clock      *shared.MockClock
	empireRepo *persistence.GormEmpireRepository
	baseRepo   *persistence.GormBaseRepository
	calculator *base.Calculator

	lastEarned int64
}

func (ctx *economyContext) reset() {
	db, err := database.NewTestConnection()
	if err != nil {
		panic(fmt.Errorf("failed to open test database: %w", err))
	}

	ctx.db = db
	ctx.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx.empireRepo = persistence.NewGormEmpireRepository(db)
	ctx.baseRepo = persistence.NewGormBaseRepository(db)
	ctx.calculator = base.NewCalculator(catalog.NewResolver())
	ctx.lastEarned = 0
}

func (ctx *economyContext) tickHandler() *commands.TickEconomyHandler {
	return commands.NewTickEconomyHandler(ctx.empireRepo, ctx.baseRepo, ctx.calculator, ctx.clock)
}

// Given steps

func (ctx *economyContext) anEmpireHoldingCredits(credits int64) error {
	emp, err := empire.NewEmpire(shared.MustNewEmpireID(bddEmpireID), "BDD Empire", credits, ctx.clock)
	if err != nil {
		return err
	}
	return ctx.empireRepo.Add(context.Background(), emp)
}

func (ctx *economyContext) anIncomeBase(solarLevels, mineLevels int) error {
	b, err := base.NewBase(shared.MustNewCoordinate(economyBaseCoord), shared.MustNewEmpireID(bddEmpireID), "Income Base")
	if err != nil {
		return err
	}
	if err := ctx.baseRepo.Add(context.Background(), b); err != nil {
		return err
	}

	structures := map[catalog.Key]int{
		catalog.SolarPlants:  solarLevels,
		catalog.CrystalMines: mineLevels,
	}
	for key, level := range structures {
		s := base.Structure{Key: key, Level: level, Active: true}
		if err := ctx.baseRepo.UpsertStructure(context.Background(), b.EmpireID(), b.Coord(), s); err != nil {
			return err
		}
	}
	return nil
}

// When steps

func (ctx *economyContext) theEconomyTicksAfterMinutes(minutes int) error {
	return ctx.tick(time.Duration(minutes)*time.Minute, 1)
}

func (ctx *economyContext) theEconomyTicksAfterSecondsTimes(seconds, times int) error {
	return ctx.tick(time.Duration(seconds)*time.Second, times)
}

func (ctx *economyContext) tick(window time.Duration, times int) error {
	ctx.lastEarned = 0
	for i := 0; i < times; i++ {
		ctx.clock.Advance(window)
		resp, err := ctx.tickHandler().Handle(context.Background(), &commands.TickEconomyCommand{
			EmpireID: bddEmpireID, ElapsedMs: window.Milliseconds(),
		})
		if err != nil {
			return err
		}
		ctx.lastEarned += resp.(*commands.TickEconomyResponse).CreditsEarned
	}
	return nil
}

// Then steps

func (ctx *economyContext) theTickEarnsCredits(credits int64) error {
	if ctx.lastEarned != credits {
		return fmt.Errorf("expected %d credits earned, got %d", credits, ctx.lastEarned)
	}
	return nil
}

func (ctx *economyContext) theEmpireHoldsCredits(credits int64) error {
	emp, err := ctx.empireRepo.FindByID(context.Background(), shared.MustNewEmpireID(bddEmpireID))
	if err != nil {
		return err
	}
	if emp.Credits() != credits {
		return fmt.Errorf("expected %d credits held, got %d", credits, emp.Credits())
	}
	return nil
}

func InitializeEconomyScenario(sc *godog.ScenarioContext) {
	economyCtx := &economyContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		economyCtx.reset()
		return ctx, nil
	})

	sc.Step(`^an empire holding (\d+) credits$`, economyCtx.anEmpireHoldingCredits)
	sc.Step(`^an income base with (\d+) solar plants and (\d+) crystal mines?$`, economyCtx.anIncomeBase)
	sc.Step(`^the economy ticks after (\d+) minutes$`, economyCtx.theEconomyTicksAfterMinutes)
	sc.Step(`^the economy ticks after (\d+) seconds, (\d+) times$`, economyCtx.theEconomyTicksAfterSecondsTimes)
	sc.Step(`^the tick earns (\d+) credits$`, economyCtx.theTickEarnsCredits)
	sc.Step(`^the empire holds (\d+) credits?$`, economyCtx.theEmpireHoldsCredits)
}
