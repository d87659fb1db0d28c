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
type GetEmpireQuery = economyTypes.GetEmpireQuery
type GetEmpireResponse = economyTypes.GetEmpireResponse

// GetEmpireHandler returns an empire's economic summary with a freshly
// computed income rate
type GetEmpireHandler struct {
	empireRepo empire.Repository
	baseRepo   base.Repository
	calculator *base.Calculator
}

// NewGetEmpireHandler creates a new get empire handler
func NewGetEmpireHandler(empireRepo empire.Repository, baseRepo base.Repository, calculator *base.Calculator) *GetEmpireHandler {
	return &GetEmpireHandler{
		empireRepo: empireRepo,
		baseRepo:   baseRepo,
		calculator: calculator,
	}
}

// Handle executes the get empire query
func (h *GetEmpireHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetEmpireQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(query.EmpireID)
	if err != nil {
		return nil, err
	}

	emp, err := h.empireRepo.FindByID(ctx, empireID)
	if err != nil {
		return nil, err
	}
	bases, err := h.baseRepo.ListByEmpire(ctx, empireID)
	if err != nil {
		return nil, err
	}

	techLevels := emp.TechLevels()
	var rate float64
	for _, b := range bases {
		income, err := h.calculator.IncomeRate(b, techLevels)
		if err != nil {
			return nil, err
		}
		rate += income
	}

	techs := make(map[string]int, len(techLevels))
	for key, level := range techLevels {
		techs[key.String()] = level
	}

	return &GetEmpireResponse{
		Name:           emp.Name(),
		Credits:        emp.Credits(),
		RemainderMilli: emp.RemainderMilli(),
		CreditsPerHour: rate,
		TechLevels:     techs,
		Bases:          len(bases),
	}, nil
}
