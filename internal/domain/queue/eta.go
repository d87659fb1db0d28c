package queue

import (
	"math"
	"time"

	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// MinDuration is the floor on scheduled work. Nothing completes in under a
// minute: instantaneous completion would make submit-then-finalize ordering
// unobservable and open completion races.
const MinDuration = time.Minute

// Schedule is a computed start/completion pair for one queue item
type Schedule struct {
	StartedAt   time.Time
	CompletesAt time.Time
}

// EstimateCompletion converts a credits cost and a throughput rate into a
// wall-clock schedule. Duration is cost/rate hours rounded up to whole
// minutes, floored at MinDuration. A zero or negative rate cannot be
// scheduled and returns InsufficientCapacityError.
func EstimateCompletion(creditsCost int64, ratePerHour float64, now time.Time) (Schedule, error) {
	if ratePerHour <= 0 {
		return Schedule{}, shared.NewInsufficientCapacityError(ratePerHour)
	}

	hours := float64(creditsCost) / ratePerHour
	minutes := int64(math.Ceil(hours * 60))
	if minutes < 1 {
		minutes = 1
	}

	duration := time.Duration(minutes) * time.Minute
	return Schedule{
		StartedAt:   now,
		CompletesAt: now.Add(duration),
	}, nil
}
