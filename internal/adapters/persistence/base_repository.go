package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/attritiongame/attrition-core/internal/domain/base"
	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// GormBaseRepository implements base.Repository using GORM
type GormBaseRepository struct {
	db *gorm.DB
}

// NewGormBaseRepository creates a new GORM base repository
func NewGormBaseRepository(db *gorm.DB) *GormBaseRepository {
	return &GormBaseRepository{db: db}
}

// FindByCoord retrieves a base with all of its structures
func (r *GormBaseRepository) FindByCoord(ctx context.Context, coord shared.Coordinate) (*base.Base, error) {
	var model BaseModel
	result := r.db.WithContext(ctx).Where("coord = ?", coord.Value()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("base", coord.String())
		}
		return nil, shared.NewTransientError("failed to load base", result.Error)
	}
	return r.hydrate(ctx, &model)
}

// ListByEmpire retrieves every base owned by an empire
func (r *GormBaseRepository) ListByEmpire(ctx context.Context, empireID shared.EmpireID) ([]*base.Base, error) {
	var models []BaseModel
	if err := r.db.WithContext(ctx).Where("empire_id = ?", empireID.Value()).Order("coord").Find(&models).Error; err != nil {
		return nil, shared.NewTransientError("failed to list bases", err)
	}

	bases := make([]*base.Base, 0, len(models))
	for i := range models {
		b, err := r.hydrate(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		bases = append(bases, b)
	}
	return bases, nil
}

// Add persists a new base and its initial structures
func (r *GormBaseRepository) Add(ctx context.Context, b *base.Base) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &BaseModel{
			Coord:    b.Coord().Value(),
			EmpireID: b.EmpireID().Value(),
			Name:     b.Name(),
		}
		if err := tx.Create(model).Error; err != nil {
			return shared.NewTransientError("failed to add base", err)
		}
		for _, s := range b.Structures() {
			sm := structureToModel(b.EmpireID(), b.Coord(), s)
			if err := tx.Create(sm).Error; err != nil {
				return shared.NewTransientError("failed to add structure", err)
			}
		}
		return nil
	})
}

// UpsertStructure writes one structure row
func (r *GormBaseRepository) UpsertStructure(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, s base.Structure) error {
	model := structureToModel(empireID, coord, s)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "empire_id"}, {Name: "base_coord"}, {Name: "catalog_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "is_active", "pending_upgrade"}),
	}).Create(model)
	if result.Error != nil {
		return shared.NewTransientError("failed to upsert structure", result.Error)
	}
	return nil
}

// IncrementStructureLevel bumps a structure by one level and activates it.
// Creates the row at level 1 when the structure was never built.
func (r *GormBaseRepository) IncrementStructureLevel(ctx context.Context, empireID shared.EmpireID, coord shared.Coordinate, key catalog.Key) error {
	return incrementStructure(r.db.WithContext(ctx), empireID.Value(), coord.Value(), key.String())
}

// incrementStructure is shared with the queue repository's finalize
// transaction so the same write happens inside and outside a tx.
func incrementStructure(db *gorm.DB, empireID int, coord, key string) error {
	result := db.Model(&StructureModel{}).
		Where("empire_id = ? AND base_coord = ? AND catalog_key = ?", empireID, coord, key).
		Updates(map[string]interface{}{
			"level":           gorm.Expr("level + 1"),
			"is_active":       true,
			"pending_upgrade": false,
		})
	if result.Error != nil {
		return shared.NewTransientError("failed to increment structure level", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	model := &StructureModel{
		EmpireID:   empireID,
		BaseCoord:  coord,
		CatalogKey: key,
		Level:      1,
		IsActive:   true,
	}
	if err := db.Create(model).Error; err != nil {
		return shared.NewTransientError("failed to create structure", err)
	}
	return nil
}

func (r *GormBaseRepository) hydrate(ctx context.Context, model *BaseModel) (*base.Base, error) {
	var structureModels []StructureModel
	err := r.db.WithContext(ctx).
		Where("empire_id = ? AND base_coord = ?", model.EmpireID, model.Coord).
		Order("catalog_key").
		Find(&structureModels).Error
	if err != nil {
		return nil, shared.NewTransientError("failed to load structures", err)
	}

	structures := make([]base.Structure, 0, len(structureModels))
	for _, sm := range structureModels {
		structures = append(structures, base.Structure{
			Key:            catalog.Key(sm.CatalogKey),
			Level:          sm.Level,
			Active:         sm.IsActive,
			PendingUpgrade: sm.PendingUpgrade,
		})
	}

	return base.ReconstructBase(
		shared.MustNewCoordinate(model.Coord),
		shared.MustNewEmpireID(model.EmpireID),
		model.Name,
		structures,
	), nil
}

func structureToModel(empireID shared.EmpireID, coord shared.Coordinate, s base.Structure) *StructureModel {
	return &StructureModel{
		EmpireID:       empireID.Value(),
		BaseCoord:      coord.Value(),
		CatalogKey:     s.Key.String(),
		Level:          s.Level,
		IsActive:       s.Active,
		PendingUpgrade: s.PendingUpgrade,
	}
}
