package types

import (
	"github.com/attritiongame/attrition-core/internal/domain/base"
)

// TickEconomyCommand accrues income for one empire over an elapsed window
type TickEconomyCommand struct {
	EmpireID  int
	ElapsedMs int64
}

// TickEconomyResponse reports the payout outcome. CreditsEarned is zero
// when another tick already claimed the window.
type TickEconomyResponse struct {
	CreditsEarned  int64
	NewBalance     int64
	CreditsPerHour float64
}

// GetCapacitiesQuery asks for a base's current throughput snapshot
type GetCapacitiesQuery struct {
	EmpireID  int
	BaseCoord string
}

// GetCapacitiesResponse carries the snapshot plus the base's steady-state
// income contribution
type GetCapacitiesResponse struct {
	Snapshot   base.CapacitySnapshot
	IncomeRate float64
}

// GetEmpireQuery asks for an empire's economic summary
type GetEmpireQuery struct {
	EmpireID int
}

// GetEmpireResponse is the read-side empire summary
type GetEmpireResponse struct {
	Name           string
	Credits        int64
	RemainderMilli int64
	CreditsPerHour float64
	TechLevels     map[string]int
	Bases          int
}
