package types

import (
	"github.com/attritiongame/attrition-core/internal/domain/queue"
)

// StartConstructionCommand requests a new queue slot for building,
// producing or researching one catalog entry at a base.
type StartConstructionCommand struct {
	EmpireID   int
	BaseCoord  string
	CatalogKey string
}

// StartConstructionResponse carries the winning queue item
type StartConstructionResponse struct {
	Item *queue.Item
}

// CancelQueueItemCommand withdraws a pending queue item
type CancelQueueItemCommand struct {
	QueueItemID string
	EmpireID    int
}

// CancelQueueItemResponse reports the credits refunded to the empire
type CancelQueueItemResponse struct {
	RefundedCredits int64
	NewBalance      int64
}

// FinalizeDueItemsCommand sweeps a base for due items and applies them
type FinalizeDueItemsCommand struct {
	EmpireID  int
	BaseCoord string
}

// FinalizeDueItemsResponse reports what the sweep did
type FinalizeDueItemsResponse struct {
	Completed int
	Promoted  int
}

// GetQueueQuery lists queue items for an empire, optionally scoped to a base
type GetQueueQuery struct {
	EmpireID  int
	BaseCoord string // empty = all bases
}

// GetQueueResponse carries the matching items
type GetQueueResponse struct {
	Items []*queue.Item
}
