package persistence

import (
	"time"
)

// EmpireModel represents the empires table.
// The payout window marker is stored as unix milliseconds so the
// compare-and-set guard is an exact integer comparison on every backend.
type EmpireModel struct {
	ID                    int       `gorm:"column:id;primaryKey"`
	Name                  string    `gorm:"column:name;not null"`
	Credits               int64     `gorm:"column:credits;not null;default:0"`
	CreditsRemainderMilli int64     `gorm:"column:credits_remainder_milli;not null;default:0"`
	EconomyRate           float64   `gorm:"column:economy_rate;not null;default:0"`
	LastPayoutAtMs        int64     `gorm:"column:last_payout_at_ms;not null;default:0"`
	CreatedAt             time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (EmpireModel) TableName() string {
	return "empires"
}

// TechLevelModel represents the empire_tech_levels table. One row per
// researched technology, incremented atomically by the completion sweep.
type TechLevelModel struct {
	EmpireID   int    `gorm:"column:empire_id;primaryKey"`
	CatalogKey string `gorm:"column:catalog_key;primaryKey"`
	Level      int    `gorm:"column:level;not null;default:0"`
}

func (TechLevelModel) TableName() string {
	return "empire_tech_levels"
}

// BaseModel represents the bases table
type BaseModel struct {
	Coord     string    `gorm:"column:coord;primaryKey"`
	EmpireID  int       `gorm:"column:empire_id;not null;index"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (BaseModel) TableName() string {
	return "bases"
}

// StructureModel represents the structures table, keyed by
// (empire, base, catalog key)
type StructureModel struct {
	EmpireID       int    `gorm:"column:empire_id;primaryKey"`
	BaseCoord      string `gorm:"column:base_coord;primaryKey"`
	CatalogKey     string `gorm:"column:catalog_key;primaryKey"`
	Level          int    `gorm:"column:level;not null;default:0"`
	IsActive       bool   `gorm:"column:is_active;not null;default:false"`
	PendingUpgrade bool   `gorm:"column:pending_upgrade;not null;default:false"`
}

func (StructureModel) TableName() string {
	return "structures"
}

// QueueItemModel represents the queue_items table. The unique index on
// identity_key is what arbitrates racing slot reservations.
type QueueItemModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	IdentityKey string     `gorm:"column:identity_key;uniqueIndex;not null"`
	EmpireID    int        `gorm:"column:empire_id;not null;index:idx_queue_empire_base"`
	BaseCoord   string     `gorm:"column:base_coord;not null;index:idx_queue_empire_base"`
	CatalogKey  string     `gorm:"column:catalog_key;not null"`
	TargetLevel int        `gorm:"column:target_level;not null"`
	Slot        int        `gorm:"column:slot;not null"`
	Status      string     `gorm:"column:status;not null"`
	CreditsCost int64      `gorm:"column:credits_cost;not null"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;not null"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletesAt *time.Time `gorm:"column:completes_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (QueueItemModel) TableName() string {
	return "queue_items"
}
