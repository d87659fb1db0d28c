package empire

import (
	"time"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Empire is the aggregate that owns credits, researched technology levels
// and the cached economy rate across all of its bases.
//
// Invariants:
// - credits never goes negative
// - remainderMilli stays in [0, 1000)
type Empire struct {
	id             shared.EmpireID
	name           string
	credits        int64
	remainderMilli int64
	techLevels     map[catalog.Key]int
	economyRate    float64
	lastPayoutAt   time.Time
}

// NewEmpire creates a new empire with a starting balance. The payout window
// opens at creation time so the first tick only covers real elapsed play.
func NewEmpire(id shared.EmpireID, name string, startingCredits int64, clock shared.Clock) (*Empire, error) {
	if id.IsZero() {
		return nil, shared.NewInvalidArgumentError("empire_id", "must not be zero")
	}
	if name == "" {
		return nil, shared.NewInvalidArgumentError("name", "must not be empty")
	}
	if startingCredits < 0 {
		return nil, shared.NewInvalidArgumentError("starting_credits", "must not be negative")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Empire{
		id:           id,
		name:         name,
		credits:      startingCredits,
		techLevels:   make(map[catalog.Key]int),
		lastPayoutAt: clock.Now(),
	}, nil
}

// ReconstructEmpire rebuilds an empire from persisted state, bypassing
// creation-time validation. For repository use only.
func ReconstructEmpire(
	id shared.EmpireID,
	name string,
	credits int64,
	remainderMilli int64,
	techLevels map[catalog.Key]int,
	economyRate float64,
	lastPayoutAt time.Time,
) *Empire {
	if techLevels == nil {
		techLevels = make(map[catalog.Key]int)
	}
	return &Empire{
		id:             id,
		name:           name,
		credits:        credits,
		remainderMilli: remainderMilli,
		techLevels:     techLevels,
		economyRate:    economyRate,
		lastPayoutAt:   lastPayoutAt,
	}
}

func (e *Empire) ID() shared.EmpireID     { return e.id }
func (e *Empire) Name() string            { return e.name }
func (e *Empire) Credits() int64          { return e.credits }
func (e *Empire) RemainderMilli() int64   { return e.remainderMilli }
func (e *Empire) EconomyRate() float64    { return e.economyRate }
func (e *Empire) LastPayoutAt() time.Time { return e.lastPayoutAt }

// TechLevel returns the researched level for a technology, zero if never
// researched.
func (e *Empire) TechLevel(key catalog.Key) int {
	return e.techLevels[key]
}

// TechLevels returns a copy of the technology level map
func (e *Empire) TechLevels() map[catalog.Key]int {
	levels := make(map[catalog.Key]int, len(e.techLevels))
	for key, level := range e.techLevels {
		levels[key] = level
	}
	return levels
}

// SetTechLevel records a researched technology level
func (e *Empire) SetTechLevel(key catalog.Key, level int) error {
	if level < 0 {
		return shared.NewInvalidArgumentError("level", "must not be negative")
	}
	e.techLevels[key] = level
	return nil
}

// Debit removes credits from the balance, refusing to go negative
func (e *Empire) Debit(amount int64) error {
	if amount < 0 {
		return shared.NewInvalidArgumentError("amount", "must not be negative")
	}
	if e.credits < amount {
		return shared.NewInsufficientCreditsError(amount, e.credits)
	}
	e.credits -= amount
	return nil
}

// Credit adds credits to the balance (payouts, refunds)
func (e *Empire) Credit(amount int64) error {
	if amount < 0 {
		return shared.NewInvalidArgumentError("amount", "must not be negative")
	}
	e.credits += amount
	return nil
}

// ApplyPayout accrues income for an elapsed window at the given rate,
// carrying the sub-credit remainder in milli-credits so no income is lost
// to truncation across many small ticks. Returns whole credits earned.
//
// The caller must persist the result with a compare-and-set guard on the
// previous lastPayoutAt so concurrent ticks cannot double-credit.
func (e *Empire) ApplyPayout(ratePerHour float64, elapsed time.Duration, now time.Time) int64 {
	if ratePerHour < 0 || elapsed <= 0 {
		e.economyRate = ratePerHour
		e.lastPayoutAt = now
		return 0
	}

	// ratePerHour credits/hour over elapsed ms is rate*ms/3600 milli-credits.
	earnedMilli := int64(ratePerHour * float64(elapsed.Milliseconds()) / 3600.0)
	totalMilli := e.remainderMilli + earnedMilli

	earned := totalMilli / 1000
	e.remainderMilli = totalMilli % 1000
	e.credits += earned
	e.economyRate = ratePerHour
	e.lastPayoutAt = now
	return earned
}
