package queries

import (
	"context"
	"fmt"

	"github.com/attritiongame/attrition-core/internal/application/common"
	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Type aliases for convenience
type GetCapacitiesQuery = economyTypes.GetCapacitiesQuery
type GetCapacitiesResponse = economyTypes.GetCapacitiesResponse

// GetCapacitiesHandler computes a base's throughput snapshot on demand.
// The snapshot is never cached: it depends on structure and tech levels
// that change out from under any cache.
type GetCapacitiesHandler struct {
	empireRepo empire.Repository
	baseRepo   base.Repository
	calculator *base.Calculator
}

// NewGetCapacitiesHandler creates a new get capacities handler
func NewGetCapacitiesHandler(empireRepo empire.Repository, baseRepo base.Repository, calculator *base.Calculator) *GetCapacitiesHandler {
	return &GetCapacitiesHandler{
		empireRepo: empireRepo,
		baseRepo:   baseRepo,
		calculator: calculator,
	}
}

// Handle executes the get capacities query
func (h *GetCapacitiesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetCapacitiesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(query.EmpireID)
	if err != nil {
		return nil, err
	}
	coord, err := shared.NewCoordinate(query.BaseCoord)
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

	techLevels := emp.TechLevels()
	snapshot, err := h.calculator.Snapshot(b, techLevels)
	if err != nil {
		return nil, err
	}
	income, err := h.calculator.IncomeRate(b, techLevels)
	if err != nil {
		return nil, err
	}

	return &GetCapacitiesResponse{
		Snapshot:   snapshot,
		IncomeRate: income,
	}, nil
}
