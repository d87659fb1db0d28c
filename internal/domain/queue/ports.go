package queue

import (
	"context"
	"time"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Repository persists queue items. Slot allocation and completion rely on
// the store's atomic conditional-write primitives, never on in-memory
// counters.
type Repository interface {
	// FindByID loads an item. Returns NotFoundError for unknown IDs.
	FindByID(ctx context.Context, id string) (*Item, error)

	// CountSlots counts non-cancelled items for an (empire, base, catalog
	// key) tuple. The result is the next candidate slot ordinal: cancelled
	// slots are retired, not reclaimed, so they stay out of the count only
	// through the identity key carrying the ordinal they consumed.
	CountSlots(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) (int, error)

	// CountOutstanding counts PENDING and ACTIVE items for an (empire,
	// base, catalog key) tuple. Added to the current structure level it
	// yields the next target level.
	CountOutstanding(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) (int, error)

	// CountActive counts items currently in ACTIVE state at a base
	CountActive(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) (int, error)

	// InsertIfAbsent attempts an atomic insert keyed on the item's identity
	// key. Returns true if this call created the row (the caller won the
	// slot), false if an item with the same identity key already existed.
	InsertIfAbsent(ctx context.Context, item *Item) (bool, error)

	// ListByEmpire returns all items for an empire, slot order within a tuple
	ListByEmpire(ctx context.Context, empireID shared.EmpireID) ([]*Item, error)

	// ListByBase returns all items for one base of an empire
	ListByBase(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) ([]*Item, error)

	// ListDue returns ACTIVE items at a base whose completion time has
	// passed, oldest completion first
	ListDue(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, now time.Time) ([]*Item, error)

	// ListPendingUnscheduled returns PENDING items at a base in submission
	// order, for promotion when active capacity frees up
	ListPendingUnscheduled(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) ([]*Item, error)

	// CancelIfPending transitions an item to CANCELLED only if it is still
	// PENDING, as one conditional write. Returns false when the item moved
	// to another state first.
	CancelIfPending(ctx context.Context, item *Item) (bool, error)

	// ActivateIfPending stamps a schedule onto a PENDING item and marks it
	// ACTIVE, as one conditional write. Returns false when the item is no
	// longer pending.
	ActivateIfPending(ctx context.Context, item *Item) (bool, error)

	// FinalizeItem atomically transitions an ACTIVE item to COMPLETED and
	// applies its effect (structure level increment, or technology level
	// increment for research items) in a single transaction. Returns false
	// without side effects when the item was already finalized: calling it
	// twice applies the effect exactly once.
	FinalizeItem(ctx context.Context, item *Item) (bool, error)
}
