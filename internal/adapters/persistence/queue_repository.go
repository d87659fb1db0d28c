package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/queue"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// GormQueueRepository implements queue.Repository using GORM. Slot
// reservation rides on the unique index over identity_key: the insert
// either creates the row or touches nothing, so exactly one racing caller
// wins regardless of commit order.
type GormQueueRepository struct {
	db      *gorm.DB
	catalog *catalog.Resolver
}

// NewGormQueueRepository creates a new GORM queue repository
func NewGormQueueRepository(db *gorm.DB, resolver *catalog.Resolver) *GormQueueRepository {
	return &GormQueueRepository{db: db, catalog: resolver}
}

// FindByID retrieves a queue item
func (r *GormQueueRepository) FindByID(ctx context.Context, id string) (*queue.Item, error) {
	var model QueueItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("queue item", id)
		}
		return nil, shared.NewTransientError("failed to load queue item", result.Error)
	}
	return modelToItem(&model), nil
}

// CountSlots counts non-cancelled items for a tuple; the result is the next
// candidate slot ordinal
func (r *GormQueueRepository) CountSlots(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("empire_id = ? AND base_coord = ? AND catalog_key = ? AND status <> ?",
			empireID.Value(), coord.Value(), key.String(), string(queue.StatusCancelled)).
		Count(&count).Error
	if err != nil {
		return 0, shared.NewTransientError("failed to count queue slots", err)
	}
	return int(count), nil
}

// CountOutstanding counts pending and active items for a tuple
func (r *GormQueueRepository) CountOutstanding(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("empire_id = ? AND base_coord = ? AND catalog_key = ? AND status IN ?",
			empireID.Value(), coord.Value(), key.String(),
			[]string{string(queue.StatusPending), string(queue.StatusActive)}).
		Count(&count).Error
	if err != nil {
		return 0, shared.NewTransientError("failed to count outstanding items", err)
	}
	return int(count), nil
}

// CountActive counts active items at a base
func (r *GormQueueRepository) CountActive(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("empire_id = ? AND base_coord = ? AND status = ?",
			empireID.Value(), coord.Value(), string(queue.StatusActive)).
		Count(&count).Error
	if err != nil {
		return 0, shared.NewTransientError("failed to count active items", err)
	}
	return int(count), nil
}

// InsertIfAbsent attempts the atomic slot-winning insert. Returns true only
// when this call created the row.
func (r *GormQueueRepository) InsertIfAbsent(ctx context.Context, item *queue.Item) (bool, error) {
	model := itemToModel(item)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_key"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, shared.NewTransientError("failed to insert queue item", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByEmpire returns all items for an empire
func (r *GormQueueRepository) ListByEmpire(ctx context.Context, empireID shared.EmpireID) ([]*queue.Item, error) {
	var models []QueueItemModel
	err := r.db.WithContext(ctx).
		Where("empire_id = ?", empireID.Value()).
		Order("submitted_at ASC, identity_key ASC").
		Find(&models).Error
	if err != nil {
		return nil, shared.NewTransientError("failed to list queue items", err)
	}
	return modelsToItems(models), nil
}

// ListByBase returns all items for one base
func (r *GormQueueRepository) ListByBase(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) ([]*queue.Item, error) {
	var models []QueueItemModel
	err := r.db.WithContext(ctx).
		Where("empire_id = ? AND base_coord = ?", empireID.Value(), coord.Value()).
		Order("submitted_at ASC, identity_key ASC").
		Find(&models).Error
	if err != nil {
		return nil, shared.NewTransientError("failed to list queue items", err)
	}
	return modelsToItems(models), nil
}

// ListDue returns active items whose completion time has passed
func (r *GormQueueRepository) ListDue(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, now time.Time) ([]*queue.Item, error) {
	var models []QueueItemModel
	err := r.db.WithContext(ctx).
		Where("empire_id = ? AND base_coord = ? AND status = ? AND completes_at <= ?",
			empireID.Value(), coord.Value(), string(queue.StatusActive), now).
		Order("completes_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, shared.NewTransientError("failed to list due items", err)
	}
	return modelsToItems(models), nil
}

// ListPendingUnscheduled returns pending items in submission order
func (r *GormQueueRepository) ListPendingUnscheduled(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate) ([]*queue.Item, error) {
	var models []QueueItemModel
	err := r.db.WithContext(ctx).
		Where("empire_id = ? AND base_coord = ? AND status = ?",
			empireID.Value(), coord.Value(), string(queue.StatusPending)).
		Order("submitted_at ASC, slot ASC").
		Find(&models).Error
	if err != nil {
		return nil, shared.NewTransientError("failed to list pending items", err)
	}
	return modelsToItems(models), nil
}

// CancelIfPending transitions an item to cancelled only while it is still
// pending
func (r *GormQueueRepository) CancelIfPending(ctx context.Context, item *queue.Item) (bool, error) {
	result := r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("id = ? AND status = ?", item.ID(), string(queue.StatusPending)).
		Updates(map[string]interface{}{
			"status":       string(queue.StatusCancelled),
			"cancelled_at": item.CancelledAt(),
		})
	if result.Error != nil {
		return false, shared.NewTransientError("failed to cancel queue item", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ActivateIfPending stamps a schedule onto a pending item
func (r *GormQueueRepository) ActivateIfPending(ctx context.Context, item *queue.Item) (bool, error) {
	result := r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("id = ? AND status = ?", item.ID(), string(queue.StatusPending)).
		Updates(map[string]interface{}{
			"status":       string(queue.StatusActive),
			"started_at":   item.StartedAt(),
			"completes_at": item.CompletesAt(),
		})
	if result.Error != nil {
		return false, shared.NewTransientError("failed to activate queue item", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FinalizeItem atomically completes an active item and applies its effect:
// structure and defense items increment the structure level, unit items the
// garrison count, research items the empire's technology level. The status
// flip and the increment commit in one transaction, so a redundant call
// applies the effect exactly once.
func (r *GormQueueRepository) FinalizeItem(ctx context.Context, item *queue.Item) (bool, error) {
	spec, err := r.catalog.GetSpec(item.CatalogKey())
	if err != nil {
		return false, err
	}

	won := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&QueueItemModel{}).
			Where("id = ? AND status = ?", item.ID(), string(queue.StatusActive)).
			Updates(map[string]interface{}{
				"status":       string(queue.StatusCompleted),
				"completed_at": item.CompletedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		won = true

		if spec.Kind == catalog.KindTechnology {
			return incrementTechLevel(tx, item.EmpireID().Value(), item.CatalogKey().String())
		}
		return incrementStructure(tx, item.EmpireID().Value(), item.BaseCoord().Value(), item.CatalogKey().String())
	})
	if err != nil {
		return false, shared.NewTransientError("failed to finalize queue item", err)
	}
	return won, nil
}

// incrementTechLevel mirrors GormEmpireRepository.IncrementTechLevel inside
// the finalize transaction
func incrementTechLevel(db *gorm.DB, empireID int, key string) error {
	model := &TechLevelModel{EmpireID: empireID, CatalogKey: key, Level: 1}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "empire_id"}, {Name: "catalog_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"level": gorm.Expr("level + 1")}),
	}).Create(model).Error
}

func itemToModel(item *queue.Item) *QueueItemModel {
	return &QueueItemModel{
		ID:          item.ID(),
		IdentityKey: item.IdentityKey().String(),
		EmpireID:    item.EmpireID().Value(),
		BaseCoord:   item.BaseCoord().Value(),
		CatalogKey:  item.CatalogKey().String(),
		TargetLevel: item.TargetLevel(),
		Slot:        item.Slot(),
		Status:      string(item.Status()),
		CreditsCost: item.CreditsCost(),
		SubmittedAt: item.SubmittedAt(),
		StartedAt:   item.StartedAt(),
		CompletesAt: item.CompletesAt(),
		CompletedAt: item.CompletedAt(),
		CancelledAt: item.CancelledAt(),
	}
}

func modelToItem(model *QueueItemModel) *queue.Item {
	return queue.ReconstructItem(
		model.ID,
		shared.MustNewEmpireID(model.EmpireID),
		shared.MustNewCoordinate(model.BaseCoord),
		catalog.Key(model.CatalogKey),
		model.TargetLevel,
		model.Slot,
		queue.Status(model.Status),
		model.CreditsCost,
		model.SubmittedAt,
		model.StartedAt,
		model.CompletesAt,
		model.CompletedAt,
		model.CancelledAt,
	)
}

func modelsToItems(models []QueueItemModel) []*queue.Item {
	items := make([]*queue.Item, 0, len(models))
	for i := range models {
		items = append(items, modelToItem(&models[i]))
	}
	return items
}
