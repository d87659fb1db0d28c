package queries

import (
	"context"
	"fmt"

	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Type aliases for convenience
type GetQueueQuery = constructionTypes.GetQueueQuery
type GetQueueResponse = constructionTypes.GetQueueResponse

// GetQueueHandler lists queue items for an empire, across all bases or
// scoped to one
type GetQueueHandler struct {
	baseRepo  base.Repository
	queueRepo queue.Repository
}

// NewGetQueueHandler creates a new get queue handler
func NewGetQueueHandler(baseRepo base.Repository, queueRepo queue.Repository) *GetQueueHandler {
	return &GetQueueHandler{baseRepo: baseRepo, queueRepo: queueRepo}
}

// Handle executes the get queue query
func (h *GetQueueHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetQueueQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(query.EmpireID)
	if err != nil {
		return nil, err
	}

	if query.BaseCoord == "" {
		items, err := h.queueRepo.ListByEmpire(ctx, empireID)
		if err != nil {
			return nil, err
		}
		return &GetQueueResponse{Items: items}, nil
	}

	coord, err := shared.NewCoordinate(query.BaseCoord)
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

	items, err := h.queueRepo.ListByBase(ctx, empireID, coord)
	if err != nil {
		return nil, err
	}
	return &GetQueueResponse{Items: items}, nil
}
