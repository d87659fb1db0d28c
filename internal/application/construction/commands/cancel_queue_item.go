package commands

import (
	"context"
	"fmt"

	"github.com/attritiongame/attrition-core/internal/adapters/metrics"
	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Type aliases for convenience
type CancelQueueItemCommand = constructionTypes.CancelQueueItemCommand
type CancelQueueItemResponse = constructionTypes.CancelQueueItemResponse

// CancelQueueItemHandler withdraws a pending item and refunds its full
// cost. Active work cannot be cancelled: its resources are committed.
// The refund equals the original cost because nothing has been consumed
// incrementally for a pending item.
type CancelQueueItemHandler struct {
	empireRepo empire.Repository
	queueRepo  queue.Repository
	clock      shared.Clock
}

// NewCancelQueueItemHandler creates a new cancel queue item handler
func NewCancelQueueItemHandler(empireRepo empire.Repository, queueRepo queue.Repository, clock shared.Clock) *CancelQueueItemHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CancelQueueItemHandler{
		empireRepo: empireRepo,
		queueRepo:  queueRepo,
		clock:      clock,
	}
}

// Handle executes the cancel queue item command
func (h *CancelQueueItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelQueueItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(cmd.EmpireID)
	if err != nil {
		return nil, err
	}

	item, err := h.queueRepo.FindByID(ctx, cmd.QueueItemID)
	if err != nil {
		return nil, err
	}
	if !item.EmpireID().Equals(empireID) {
		return nil, shared.NewForbiddenError(fmt.Sprintf("queue item %s is not owned by empire %s", cmd.QueueItemID, empireID))
	}

	if err := item.Cancel(h.clock.Now()); err != nil {
		return nil, err
	}

	committed, err := h.queueRepo.CancelIfPending(ctx, item)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, shared.NewTransientError("queue item changed state during cancellation", nil)
	}

	refund := item.CreditsCost()
	newBalance, err := h.empireRepo.CreditAtomic(ctx, empireID, refund)
	if err != nil {
		return nil, err
	}

	metrics.RecordCancellation(empireID.Value(), item.CatalogKey().String(), refund)
	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "queue item cancelled", map[string]interface{}{
		"identity_key":     item.IdentityKey().String(),
		"refunded_credits": refund,
	})

	return &CancelQueueItemResponse{
		RefundedCredits: refund,
		NewBalance:      newBalance,
	}, nil
}
