package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/attritiongame/attrition-core/internal/adapters/metrics"
	"github.com/attritiongame/attrition-core/internal/application/common"
	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Type aliases for convenience
type TickEconomyCommand = economyTypes.TickEconomyCommand
type TickEconomyResponse = economyTypes.TickEconomyResponse

// TickEconomyHandler recomputes an empire's credits/hour across all bases
// and applies the payout for the elapsed window. This is the single
// authoritative path that updates the cached economy rate; the payout
// itself is guarded by a compare-and-set on lastPayoutAt so a double
// invocation for the same window credits exactly once.
type TickEconomyHandler struct {
	empireRepo empire.Repository
	baseRepo   base.Repository
	calculator *base.Calculator
	clock      shared.Clock
}

// NewTickEconomyHandler creates a new tick economy handler
func NewTickEconomyHandler(
	empireRepo empire.Repository,
	baseRepo base.Repository,
	calculator *base.Calculator,
	clock shared.Clock,
) *TickEconomyHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TickEconomyHandler{
		empireRepo: empireRepo,
		baseRepo:   baseRepo,
		calculator: calculator,
		clock:      clock,
	}
}

// Handle executes the tick economy command
func (h *TickEconomyHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*TickEconomyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	empireID, err := shared.NewEmpireID(cmd.EmpireID)
	if err != nil {
		return nil, err
	}
	if cmd.ElapsedMs < 0 {
		return nil, shared.NewInvalidArgumentError("elapsed_ms", "must not be negative")
	}

	emp, err := h.empireRepo.FindByID(ctx, empireID)
	if err != nil {
		return nil, err
	}

	rate, err := h.computeEconomyRate(ctx, emp)
	if err != nil {
		return nil, err
	}

	// A caller can only be credited for wall-clock time that has actually
	// passed since the last payout. Without the clamp, replaying the same
	// elapsed window after a successful commit would pass the CAS again
	// (the marker matches the reloaded state) and credit the hour twice.
	now := h.clock.Now()
	elapsed := time.Duration(cmd.ElapsedMs) * time.Millisecond
	if window := now.Sub(emp.LastPayoutAt()); elapsed > window {
		elapsed = window
	}

	expected := emp.LastPayoutAt()
	earned := emp.ApplyPayout(rate, elapsed, now)

	newBalance, committed, err := h.empireRepo.CommitPayout(ctx, emp, expected, earned)
	if err != nil {
		return nil, err
	}
	if !committed {
		// Another tick claimed this window. Nothing was credited here;
		// report the fresh balance so the caller converges.
		fresh, err := h.empireRepo.FindByID(ctx, empireID)
		if err != nil {
			return nil, err
		}
		return &TickEconomyResponse{
			CreditsEarned:  0,
			NewBalance:     fresh.Credits(),
			CreditsPerHour: fresh.EconomyRate(),
		}, nil
	}

	metrics.RecordPayout(empireID.Value(), earned, newBalance)
	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "economy tick applied", map[string]interface{}{
		"empire_id":        empireID.Value(),
		"credits_earned":   earned,
		"credits_per_hour": rate,
	})

	return &TickEconomyResponse{
		CreditsEarned:  earned,
		NewBalance:     newBalance,
		CreditsPerHour: rate,
	}, nil
}

// computeEconomyRate sums steady-state income across every base the empire
// owns
func (h *TickEconomyHandler) computeEconomyRate(ctx context.Context, emp *empire.Empire) (float64, error) {
	bases, err := h.baseRepo.ListByEmpire(ctx, emp.ID())
	if err != nil {
		return 0, err
	}
	techLevels := emp.TechLevels()

	var total float64
	for _, b := range bases {
		income, err := h.calculator.IncomeRate(b, techLevels)
		if err != nil {
			return 0, err
		}
		total += income
	}
	return total, nil
}
