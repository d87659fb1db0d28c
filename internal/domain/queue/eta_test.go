package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

func TestEstimateCompletion(t *testing.T) {
	// Arrange - 250 credits at 500 credits/hour is half an hour of work
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	schedule, err := queue.EstimateCompletion(250, 500, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, now, schedule.StartedAt)
	assert.Equal(t, now.Add(30*time.Minute), schedule.CompletesAt)
}

func TestEstimateCompletion_RoundsUpToWholeMinutes(t *testing.T) {
	// Arrange - 180 credits at 500/hour is 21.6 minutes
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	schedule, err := queue.EstimateCompletion(180, 500, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, now.Add(22*time.Minute), schedule.CompletesAt)
}

func TestEstimateCompletion_OneMinuteFloor(t *testing.T) {
	// Arrange - trivially cheap work still takes a minute
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	schedule, err := queue.EstimateCompletion(1, 100000, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, now.Add(queue.MinDuration), schedule.CompletesAt)
}

func TestEstimateCompletion_ZeroCost(t *testing.T) {
	// Arrange
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	schedule, err := queue.EstimateCompletion(0, 500, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, now.Add(queue.MinDuration), schedule.CompletesAt)
}

func TestEstimateCompletion_ZeroRate(t *testing.T) {
	// Act
	_, err := queue.EstimateCompletion(250, 0, time.Now())

	// Assert
	require.Error(t, err)
	var capErr *shared.InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0.0, capErr.RatePerHour)
}

func TestEstimateCompletion_NegativeRate(t *testing.T) {
	// Act
	_, err := queue.EstimateCompletion(250, -10, time.Now())

	// Assert
	var capErr *shared.InsufficientCapacityError
	assert.ErrorAs(t, err, &capErr)
}

func TestEstimateCompletion_MonotonicInRate(t *testing.T) {
	// Arrange - a faster base never finishes the same work later
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rates := []float64{50, 100, 250, 500, 1000, 5000}

	// Act / Assert
	var previous time.Time
	for i, rate := range rates {
		schedule, err := queue.EstimateCompletion(777, rate, now)
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, schedule.CompletesAt.After(previous),
				"rate %.0f completed later than rate %.0f", rate, rates[i-1])
		}
		previous = schedule.CompletesAt
	}
}

func TestEstimateCompletion_MonotonicInCost(t *testing.T) {
	// Arrange - more expensive work never finishes earlier at the same rate
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	costs := []int64{10, 100, 500, 2500, 10000}

	// Act / Assert
	var previous time.Time
	for i, cost := range costs {
		schedule, err := queue.EstimateCompletion(cost, 400, now)
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, schedule.CompletesAt.Before(previous),
				"cost %d completed earlier than cost %d", cost, costs[i-1])
		}
		previous = schedule.CompletesAt
	}
}
