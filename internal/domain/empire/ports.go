package empire

import (
	"context"
	"time"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Repository persists empires. All balance mutations are atomic conditional
// writes at the store: nothing here is read-modify-write in memory.
type Repository interface {
	// FindByID loads an empire with its technology levels.
	// Returns NotFoundError for unknown IDs.
	FindByID(ctx context.Context, id shared.EmpireID) (*Empire, error)

	// Add persists a new empire
	Add(ctx context.Context, e *Empire) error

	// ListIDs returns all empire IDs, for sweep iteration
	ListIDs(ctx context.Context) ([]shared.EmpireID, error)

	// CreditAtomic increments the balance in a single store-side operation
	// and returns the new balance. Used for refunds and manual grants.
	CreditAtomic(ctx context.Context, id shared.EmpireID, amount int64) (int64, error)

	// DebitAtomic decrements the balance only if it stays non-negative,
	// returning InsufficientCreditsError otherwise, and the new balance on
	// success. The check and the write are one conditional store operation.
	DebitAtomic(ctx context.Context, id shared.EmpireID, amount int64) (int64, error)

	// CommitPayout applies a computed payout with a compare-and-set guard:
	// the balance increment only lands if the stored lastPayoutAt still
	// equals expectedLastPayoutAt. Returns the post-write balance and true
	// on success, or false (writing nothing) when another tick already
	// advanced the window.
	CommitPayout(ctx context.Context, e *Empire, expectedLastPayoutAt time.Time, earned int64) (int64, bool, error)

	// IncrementTechLevel bumps a researched technology by one level as a
	// single atomic upsert. Used by the completion sweep.
	IncrementTechLevel(ctx context.Context, id shared.EmpireID, key catalog.Key) error
}
