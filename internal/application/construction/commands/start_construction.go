package commands

import (
	"context"
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
type StartConstructionCommand = constructionTypes.StartConstructionCommand
type StartConstructionResponse = constructionTypes.StartConstructionResponse

// StartConstructionHandler reserves a queue slot, schedules it against the
// base's current capacity and charges the empire. The slot reservation is
// the concurrency-critical step: the atomic insert on the identity key
// guarantees at-most-one winner among racing submissions.
type StartConstructionHandler struct {
	empireRepo empire.Repository
	baseRepo   base.Repository
	queueRepo  queue.Repository
	catalog    *catalog.Resolver
	calculator *base.Calculator
	rules      common.Rules
	clock      shared.Clock
}

// NewStartConstructionHandler creates a new start construction handler
func NewStartConstructionHandler(
	empireRepo empire.Repository,
	baseRepo base.Repository,
	queueRepo queue.Repository,
	resolver *catalog.Resolver,
	calculator *base.Calculator,
	rules common.Rules,
	clock shared.Clock,
) *StartConstructionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartConstructionHandler{
		empireRepo: empireRepo,
		baseRepo:   baseRepo,
		queueRepo:  queueRepo,
		catalog:    resolver,
		calculator: calculator,
		rules:      rules,
		clock:      clock,
	}
}

// Handle executes the start construction command
func (h *StartConstructionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartConstructionCommand)
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
	key, err := catalog.ParseKey(cmd.CatalogKey)
	if err != nil {
		return nil, err
	}
	spec, err := h.catalog.GetSpec(key)
	if err != nil {
		return nil, err
	}

	emp, err := h.empireRepo.FindByID(ctx, empireID)
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

	if err := h.checkPrerequisites(spec, emp, b); err != nil {
		return nil, err
	}

	targetLevel, err := h.nextTargetLevel(ctx, spec, emp, b)
	if err != nil {
		return nil, err
	}
	cost, err := h.catalog.CostForLevel(key, targetLevel)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	slot, err := h.queueRepo.CountSlots(ctx, empireID, coord, key)
	if err != nil {
		return nil, err
	}
	item, err := queue.NewItem(empireID, coord, key, targetLevel, slot, cost, now)
	if err != nil {
		return nil, err
	}

	if err := h.scheduleIfSlotFree(ctx, item, spec, emp, b, now); err != nil {
		return nil, err
	}

	// Charge before reserving so a failed debit leaves no queue state
	// behind; a lost reservation below is compensated with a refund.
	if _, err := h.empireRepo.DebitAtomic(ctx, empireID, cost); err != nil {
		return nil, err
	}

	created, err := h.queueRepo.InsertIfAbsent(ctx, item)
	if err != nil {
		if refundErr := h.refund(ctx, empireID, cost); refundErr != nil {
			return nil, refundErr
		}
		return nil, err
	}
	if !created {
		metrics.RecordSlotLost(empireID.Value(), key.String())
		if refundErr := h.refund(ctx, empireID, cost); refundErr != nil {
			return nil, refundErr
		}
		return nil, shared.NewAlreadyInProgressError(item.IdentityKey().String())
	}

	metrics.RecordSlotWon(empireID.Value(), key.String())
	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "construction queued", map[string]interface{}{
		"identity_key": item.IdentityKey().String(),
		"credits_cost": cost,
		"status":       string(item.Status()),
	})

	return &StartConstructionResponse{Item: item}, nil
}

// scheduleIfSlotFree activates the item immediately when the base has an
// active slot free; otherwise it stays pending and unscheduled until the
// sweep promotes it. An immediately-scheduled item with no capacity behind
// it is rejected outright.
func (h *StartConstructionHandler) scheduleIfSlotFree(
	ctx context.Context,
	item *queue.Item,
	spec catalog.Spec,
	emp *empire.Empire,
	b *base.Base,
	now time.Time,
) error {
	if h.rules.MaxActivePerBase > 0 {
		active, err := h.queueRepo.CountActive(ctx, emp.ID(), b.Coord())
		if err != nil {
			return err
		}
		if active >= h.rules.MaxActivePerBase {
			return nil
		}
	}

	snapshot, err := h.calculator.Snapshot(b, emp.TechLevels())
	if err != nil {
		return err
	}
	schedule, err := queue.EstimateCompletion(item.CreditsCost(), snapshot.RateFor(spec.Kind), now)
	if err != nil {
		return err
	}
	return item.Activate(schedule)
}

func (h *StartConstructionHandler) checkPrerequisites(spec catalog.Spec, emp *empire.Empire, b *base.Base) error {
	for _, req := range spec.Prerequisites {
		reqSpec, err := h.catalog.GetSpec(req.Key)
		if err != nil {
			return err
		}
		var have int
		if reqSpec.Kind == catalog.KindTechnology {
			have = emp.TechLevel(req.Key)
		} else {
			have = b.StructureLevel(req.Key)
		}
		if have < req.Level {
			return shared.NewInvalidArgumentError("prerequisites",
				fmt.Sprintf("%s requires %s level %d, have %d", spec.Key, req.Key, req.Level, have))
		}
	}
	return nil
}

// nextTargetLevel is the current level plus everything already queued for
// the same key, plus one.
func (h *StartConstructionHandler) nextTargetLevel(ctx context.Context, spec catalog.Spec, emp *empire.Empire, b *base.Base) (int, error) {
	outstanding, err := h.queueRepo.CountOutstanding(ctx, emp.ID(), b.Coord(), spec.Key)
	if err != nil {
		return 0, err
	}
	var current int
	if spec.Kind == catalog.KindTechnology {
		current = emp.TechLevel(spec.Key)
	} else {
		current = b.StructureLevel(spec.Key)
	}
	return current + outstanding + 1, nil
}

// refundAttempts bounds the compensating-credit retries after a lost or
// failed slot reservation.
const refundAttempts = 3

// refund returns the debited cost after a reservation did not stick. The
// credit is retried and any final failure is surfaced to the caller:
// dropping it would leave the player silently short.
func (h *StartConstructionHandler) refund(ctx context.Context, empireID shared.EmpireID, amount int64) error {
	var lastErr error
	for attempt := 0; attempt < refundAttempts; attempt++ {
		if _, lastErr = h.empireRepo.CreditAtomic(ctx, empireID, amount); lastErr == nil {
			return nil
		}
	}
	logger := common.LoggerFromContext(ctx)
	logger.Log("ERROR", "failed to refund after lost slot reservation", map[string]interface{}{
		"empire_id": empireID.Value(),
		"amount":    amount,
		"error":     lastErr.Error(),
	})
	return shared.NewTransientError(
		fmt.Sprintf("refund of %d credits for empire %d failed", amount, empireID.Value()), lastErr)
}
