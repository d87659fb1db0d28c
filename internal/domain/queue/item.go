package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// Status is the lifecycle state of a queue item
type Status string

const (
	// StatusPending indicates the item holds a slot but is not yet
	// scheduled (its completion timestamp is unset)
	StatusPending Status = "PENDING"

	// StatusActive indicates the item is scheduled and counting down
	StatusActive Status = "ACTIVE"

	// StatusCompleted indicates the item's work has been applied
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled indicates the item was withdrawn before it started.
	// A cancelled slot's ordinal is retired, never reassigned.
	StatusCancelled Status = "CANCELLED"
)

// Item is one in-flight or finished construction, production or research
// action. The lifecycle is PENDING → ACTIVE → COMPLETED, or
// PENDING → CANCELLED; active work cannot be cancelled because its
// resources are already committed.
type Item struct {
	id          string
	identityKey IdentityKey
	empireID    shared.EmpireID
	baseCoord   shared.Coordinate
	catalogKey  catalog.Key
	targetLevel int
	slot        int
	status      Status
	creditsCost int64
	submittedAt time.Time
	startedAt   *time.Time
	completesAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
}

// NewItem creates a pending, unscheduled item holding the given slot
func NewItem(
	empireID shared.EmpireID,
	baseCoord shared.Coordinate,
	catalogKey catalog.Key,
	targetLevel int,
	slot int,
	creditsCost int64,
	now time.Time,
) (*Item, error) {
	if empireID.IsZero() {
		return nil, shared.NewInvalidArgumentError("empire_id", "must not be zero")
	}
	if baseCoord.IsZero() {
		return nil, shared.NewInvalidArgumentError("base_coord", "must not be zero")
	}
	if targetLevel < 1 {
		return nil, shared.NewInvalidArgumentError("target_level", "must be at least 1")
	}
	if slot < 0 {
		return nil, shared.NewInvalidArgumentError("slot", "must not be negative")
	}
	if creditsCost < 0 {
		return nil, shared.NewInvalidArgumentError("credits_cost", "must not be negative")
	}

	return &Item{
		id:          uuid.NewString(),
		identityKey: NewIdentityKey(empireID, baseCoord, catalogKey, targetLevel, slot),
		empireID:    empireID,
		baseCoord:   baseCoord,
		catalogKey:  catalogKey,
		targetLevel: targetLevel,
		slot:        slot,
		status:      StatusPending,
		creditsCost: creditsCost,
		submittedAt: now,
	}, nil
}

// ReconstructItem rebuilds an item from persisted state. For repository use only.
func ReconstructItem(
	id string,
	empireID shared.EmpireID,
	baseCoord shared.Coordinate,
	catalogKey catalog.Key,
	targetLevel int,
	slot int,
	status Status,
	creditsCost int64,
	submittedAt time.Time,
	startedAt, completesAt, completedAt, cancelledAt *time.Time,
) *Item {
	return &Item{
		id:          id,
		identityKey: NewIdentityKey(empireID, baseCoord, catalogKey, targetLevel, slot),
		empireID:    empireID,
		baseCoord:   baseCoord,
		catalogKey:  catalogKey,
		targetLevel: targetLevel,
		slot:        slot,
		status:      status,
		creditsCost: creditsCost,
		submittedAt: submittedAt,
		startedAt:   startedAt,
		completesAt: completesAt,
		completedAt: completedAt,
		cancelledAt: cancelledAt,
	}
}

func (i *Item) ID() string                   { return i.id }
func (i *Item) IdentityKey() IdentityKey     { return i.identityKey }
func (i *Item) EmpireID() shared.EmpireID    { return i.empireID }
func (i *Item) BaseCoord() shared.Coordinate { return i.baseCoord }
func (i *Item) CatalogKey() catalog.Key      { return i.catalogKey }
func (i *Item) TargetLevel() int             { return i.targetLevel }
func (i *Item) Slot() int                    { return i.slot }
func (i *Item) Status() Status               { return i.status }
func (i *Item) CreditsCost() int64           { return i.creditsCost }
func (i *Item) SubmittedAt() time.Time       { return i.submittedAt }
func (i *Item) StartedAt() *time.Time        { return i.startedAt }
func (i *Item) CompletesAt() *time.Time      { return i.completesAt }
func (i *Item) CompletedAt() *time.Time      { return i.completedAt }
func (i *Item) CancelledAt() *time.Time      { return i.cancelledAt }

// Activate schedules a pending item, stamping its start and completion times
func (i *Item) Activate(s Schedule) error {
	if i.status != StatusPending {
		return shared.NewInvalidTransitionError(string(i.status), string(StatusActive))
	}
	started := s.StartedAt
	completes := s.CompletesAt
	i.startedAt = &started
	i.completesAt = &completes
	i.status = StatusActive
	return nil
}

// Cancel withdraws a pending item. Active, completed and cancelled items
// cannot be cancelled.
func (i *Item) Cancel(now time.Time) error {
	if i.status != StatusPending {
		return shared.NewInvalidTransitionError(string(i.status), string(StatusCancelled))
	}
	i.status = StatusCancelled
	i.cancelledAt = &now
	return nil
}

// Complete marks an active, due item as finished
func (i *Item) Complete(now time.Time) error {
	if i.status != StatusActive {
		return shared.NewInvalidTransitionError(string(i.status), string(StatusCompleted))
	}
	if !i.IsDue(now) {
		return shared.NewInvalidTransitionError(string(StatusActive), string(StatusCompleted))
	}
	i.status = StatusCompleted
	i.completedAt = &now
	return nil
}

// IsDue reports whether an active item's completion time has elapsed
func (i *Item) IsDue(now time.Time) bool {
	return i.status == StatusActive && i.completesAt != nil && !i.completesAt.After(now)
}

// IsTerminal reports whether the item has reached a final state
func (i *Item) IsTerminal() bool {
	return i.status == StatusCompleted || i.status == StatusCancelled
}
