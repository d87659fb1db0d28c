package cli

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/attritiongame/attrition-core/internal/adapters/metrics"
	"github.com/attritiongame/attrition-core/internal/adapters/persistence"
	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionCmd "github.com/attritiongame/attrition-core/internal/application/construction/commands"
	constructionQuery "github.com/attritiongame/attrition-core/internal/application/construction/queries"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	economyCmd "github.com/attritiongame/attrition-core/internal/application/economy/commands"
	economyQuery "github.com/attritiongame/attrition-core/internal/application/economy/queries"
	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
	"github.com/attritiongame/attrition-core/internal/infrastructure/config"
	"github.com/attritiongame/attrition-core/internal/infrastructure/database"
)

// Engine bundles the wired-up core: repositories, handlers and the
// mediator the commands dispatch through.
type Engine struct {
	Config     *config.Config
	DB         *gorm.DB
	Mediator   common.Mediator
	EmpireRepo empire.Repository
	BaseRepo   base.Repository
}

// NewEngine opens the database and registers every handler with the
// mediator
func NewEngine(configPath string) (*Engine, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		queueCollector := metrics.NewQueueMetricsCollector()
		if err := queueCollector.Register(metrics.Registry); err != nil {
			return nil, fmt.Errorf("failed to register queue metrics: %w", err)
		}
		economyCollector := metrics.NewEconomyMetricsCollector()
		if err := economyCollector.Register(metrics.Registry); err != nil {
			return nil, fmt.Errorf("failed to register economy metrics: %w", err)
		}
		metrics.SetGlobalQueueCollector(queueCollector)
		metrics.SetGlobalEconomyCollector(economyCollector)
	}

	resolver := catalog.NewResolver()
	calculator := base.NewCalculator(resolver)
	clock := shared.NewRealClock()
	rules := common.Rules{MaxActivePerBase: cfg.Rules.MaxActivePerBase}

	empireRepo := persistence.NewGormEmpireRepository(db)
	baseRepo := persistence.NewGormBaseRepository(db)
	queueRepo := persistence.NewGormQueueRepository(db, resolver)

	m := common.NewMediator()
	registrations := []error{
		common.RegisterHandler[*constructionTypes.StartConstructionCommand](m,
			constructionCmd.NewStartConstructionHandler(empireRepo, baseRepo, queueRepo, resolver, calculator, rules, clock)),
		common.RegisterHandler[*constructionTypes.CancelQueueItemCommand](m,
			constructionCmd.NewCancelQueueItemHandler(empireRepo, queueRepo, clock)),
		common.RegisterHandler[*constructionTypes.FinalizeDueItemsCommand](m,
			constructionCmd.NewFinalizeDueItemsHandler(empireRepo, baseRepo, queueRepo, resolver, calculator, rules, clock)),
		common.RegisterHandler[*constructionTypes.GetQueueQuery](m,
			constructionQuery.NewGetQueueHandler(baseRepo, queueRepo)),
		common.RegisterHandler[*economyTypes.TickEconomyCommand](m,
			economyCmd.NewTickEconomyHandler(empireRepo, baseRepo, calculator, clock)),
		common.RegisterHandler[*economyTypes.GetCapacitiesQuery](m,
			economyQuery.NewGetCapacitiesHandler(empireRepo, baseRepo, calculator)),
		common.RegisterHandler[*economyTypes.GetEmpireQuery](m,
			economyQuery.NewGetEmpireHandler(empireRepo, baseRepo, calculator)),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}

	return &Engine{
		Config:     cfg,
		DB:         db,
		Mediator:   m,
		EmpireRepo: empireRepo,
		BaseRepo:   baseRepo,
	}, nil
}

// Close releases the engine's database connection
func (e *Engine) Close() error {
	return database.Close(e.DB)
}
