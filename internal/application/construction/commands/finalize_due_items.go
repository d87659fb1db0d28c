package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attritiongame/attrition-core/internal/adapters/metrics"
	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Type aliases for convenience
type FinalizeDueItemsCommand = constructionTypes.FinalizeDueItemsCommand
type FinalizeDueItemsResponse = constructionTypes.FinalizeDueItemsResponse

// FinalizeDueItemsHandler sweeps one base: every active item whose
// completion time has elapsed is applied (level increment) and marked
// completed, then pending items are promoted into freed active slots.
// The sweep is idempotent: finalization is a conditional write, so a
// redundant pass over an already-completed item is a no-op.
type FinalizeDueItemsHandler struct {
	empireRepo empire.Repository
	baseRepo   base.Repository
	queueRepo  queue.Repository
	catalog    *catalog.Resolver
	calculator *base.Calculator
	rules      common.Rules
	clock      shared.Clock
}

// NewFinalizeDueItemsHandler creates a new finalize due items handler
func NewFinalizeDueItemsHandler(
	empireRepo empire.Repository,
	baseRepo base.Repository,
	queueRepo queue.Repository,
	resolver *catalog.Resolver,
	calculator *base.Calculator,
	rules common.Rules,
	clock shared.Clock,
) *FinalizeDueItemsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FinalizeDueItemsHandler{
		empireRepo: empireRepo,
		baseRepo:   baseRepo,
		queueRepo:  queueRepo,
		catalog:    resolver,
		calculator: calculator,
		rules:      rules,
		clock:      clock,
	}
}

// Handle executes the finalize due items command
func (h *FinalizeDueItemsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FinalizeDueItemsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(cmd.EmpireID)
	if err != nil {
		return nil, err
	}
	coord, err := shared.NewCoordinate(cmd.BaseCoord)
	if err != nil {
		return nil, err
	}

	b, err := h.baseRepo.FindByCoord(ctx, coord)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(empireID) {
		return nil, shared.NewForbiddenError(fmt.Sprintf("base %s is not owned by empire %s", coord, empireID))
	}

	now := h.clock.Now()
	completed, err := h.completeDue(ctx, empireID, coord, now)
	if err != nil {
		return nil, err
	}

	promoted, err := h.promotePending(ctx, empireID, coord, now)
	if err != nil {
		return nil, err
	}

	return &FinalizeDueItemsResponse{
		Completed: completed,
		Promoted:  promoted,
	}, nil
}

func (h *FinalizeDueItemsHandler) completeDue(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, now time.Time) (int, error) {
	due, err := h.queueRepo.ListDue(ctx, empireID, coord, now)
	if err != nil {
		return 0, err
	}

	logger := common.LoggerFromContext(ctx)
	completed := 0
	for _, item := range due {
		if err := item.Complete(now); err != nil {
			continue
		}
		won, err := h.queueRepo.FinalizeItem(ctx, item)
		if err != nil {
			return completed, err
		}
		if !won {
			// Another sweep finalized it first; the level increment
			// already happened exactly once.
			continue
		}
		completed++
		metrics.RecordCompletion(empireID.Value(), item.CatalogKey().String())
		logger.Log("INFO", "queue item completed", map[string]interface{}{
			"identity_key": item.IdentityKey().String(),
			"target_level": item.TargetLevel(),
		})
	}
	return completed, nil
}

// promotePending schedules pending items into freed active slots, oldest
// submission first. Recomputes capacity after completions since structure
// levels just changed.
func (h *FinalizeDueItemsHandler) promotePending(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, now time.Time) (int, error) {
	pending, err := h.queueRepo.ListPendingUnscheduled(ctx, empireID, coord)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	emp, err := h.empireRepo.FindByID(ctx, empireID)
	if err != nil {
		return 0, err
	}
	b, err := h.baseRepo.FindByCoord(ctx, coord)
	if err != nil {
		return 0, err
	}
	snapshot, err := h.calculator.Snapshot(b, emp.TechLevels())
	if err != nil {
		return 0, err
	}

	active, err := h.queueRepo.CountActive(ctx, empireID, coord)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, item := range pending {
		if h.rules.MaxActivePerBase > 0 && active >= h.rules.MaxActivePerBase {
			break
		}
		spec, err := h.catalog.GetSpec(item.CatalogKey())
		if err != nil {
			return promoted, err
		}
		schedule, err := queue.EstimateCompletion(item.CreditsCost(), snapshot.RateFor(spec.Kind), now)
		if err != nil {
			var capErr *shared.InsufficientCapacityError
			if errors.As(err, &capErr) {
				// No throughput for this kind right now; leave it
				// pending and try the next item, which may draw on a
				// different rate.
				continue
			}
			return promoted, err
		}
		if err := item.Activate(schedule); err != nil {
			continue
		}
		committed, err := h.queueRepo.ActivateIfPending(ctx, item)
		if err != nil {
			return promoted, err
		}
		if committed {
			promoted++
			active++
		}
	}
	return promoted, nil
}
