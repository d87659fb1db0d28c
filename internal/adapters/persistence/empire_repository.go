package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/empire"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

// GormEmpireRepository implements empire.Repository using GORM. Every
// balance mutation is a single conditional UPDATE at the store; nothing is
// read-modify-write in application memory.
type GormEmpireRepository struct {
	db *gorm.DB
}

// NewGormEmpireRepository creates a new GORM empire repository
func NewGormEmpireRepository(db *gorm.DB) *GormEmpireRepository {
	return &GormEmpireRepository{db: db}
}

// FindByID retrieves an empire with its researched technology levels
func (r *GormEmpireRepository) FindByID(ctx context.Context, id shared.EmpireID) (*empire.Empire, error) {
	var model EmpireModel
	result := r.db.WithContext(ctx).Where("id = ?", id.Value()).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("empire", id.String())
		}
		return nil, shared.NewTransientError("failed to load empire", result.Error)
	}

	var techs []TechLevelModel
	if err := r.db.WithContext(ctx).Where("empire_id = ?", id.Value()).Find(&techs).Error; err != nil {
		return nil, shared.NewTransientError("failed to load tech levels", err)
	}

	techLevels := make(map[catalog.Key]int, len(techs))
	for _, t := range techs {
		techLevels[catalog.Key(t.CatalogKey)] = t.Level
	}

	return empire.ReconstructEmpire(
		shared.MustNewEmpireID(model.ID),
		model.Name,
		model.Credits,
		model.CreditsRemainderMilli,
		techLevels,
		model.EconomyRate,
		time.UnixMilli(model.LastPayoutAtMs).UTC(),
	), nil
}

// Add persists a new empire and its initial tech levels
func (r *GormEmpireRepository) Add(ctx context.Context, e *empire.Empire) error {
	model := &EmpireModel{
		ID:                    e.ID().Value(),
		Name:                  e.Name(),
		Credits:               e.Credits(),
		CreditsRemainderMilli: e.RemainderMilli(),
		EconomyRate:           e.EconomyRate(),
		LastPayoutAtMs:        e.LastPayoutAt().UnixMilli(),
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return shared.NewTransientError("failed to add empire", err)
		}
		for key, level := range e.TechLevels() {
			if level == 0 {
				continue
			}
			tech := &TechLevelModel{EmpireID: e.ID().Value(), CatalogKey: key.String(), Level: level}
			if err := tx.Create(tech).Error; err != nil {
				return shared.NewTransientError("failed to add tech level", err)
			}
		}
		return nil
	})
}

// ListIDs returns all empire IDs
func (r *GormEmpireRepository) ListIDs(ctx context.Context) ([]shared.EmpireID, error) {
	var ids []int
	if err := r.db.WithContext(ctx).Model(&EmpireModel{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, shared.NewTransientError("failed to list empires", err)
	}
	empireIDs := make([]shared.EmpireID, 0, len(ids))
	for _, id := range ids {
		empireIDs = append(empireIDs, shared.MustNewEmpireID(id))
	}
	return empireIDs, nil
}

// CreditAtomic increments the balance in one store-side operation
func (r *GormEmpireRepository) CreditAtomic(ctx context.Context, id shared.EmpireID, amount int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&EmpireModel{}).
		Where("id = ?", id.Value()).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return 0, shared.NewTransientError("failed to credit empire", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, shared.NewNotFoundError("empire", id.String())
	}
	return r.currentBalance(ctx, id)
}

// DebitAtomic decrements the balance only when it stays non-negative; the
// guard and the write are one conditional UPDATE.
func (r *GormEmpireRepository) DebitAtomic(ctx context.Context, id shared.EmpireID, amount int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&EmpireModel{}).
		Where("id = ? AND credits >= ?", id.Value(), amount).
		UpdateColumn("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return 0, shared.NewTransientError("failed to debit empire", result.Error)
	}
	if result.RowsAffected == 0 {
		balance, err := r.currentBalance(ctx, id)
		if err != nil {
			return 0, err
		}
		return 0, shared.NewInsufficientCreditsError(amount, balance)
	}
	return r.currentBalance(ctx, id)
}

// CommitPayout lands a computed payout only if the payout window marker is
// unchanged since the empire was loaded. The balance moves by increment so
// concurrent refunds are never overwritten.
func (r *GormEmpireRepository) CommitPayout(ctx context.Context, e *empire.Empire, expectedLastPayoutAt time.Time, earned int64) (int64, bool, error) {
	result := r.db.WithContext(ctx).Model(&EmpireModel{}).
		Where("id = ? AND last_payout_at_ms = ?", e.ID().Value(), expectedLastPayoutAt.UnixMilli()).
		Updates(map[string]interface{}{
			"credits":                 gorm.Expr("credits + ?", earned),
			"credits_remainder_milli": e.RemainderMilli(),
			"economy_rate":            e.EconomyRate(),
			"last_payout_at_ms":       e.LastPayoutAt().UnixMilli(),
		})
	if result.Error != nil {
		return 0, false, shared.NewTransientError("failed to commit payout", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	balance, err := r.currentBalance(ctx, e.ID())
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// IncrementTechLevel bumps a technology by one level as a single upsert
func (r *GormEmpireRepository) IncrementTechLevel(ctx context.Context, id shared.EmpireID, key catalog.Key) error {
	model := &TechLevelModel{EmpireID: id.Value(), CatalogKey: key.String(), Level: 1}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "empire_id"}, {Name: "catalog_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"level": gorm.Expr("level + 1")}),
	}).Create(model)
	if result.Error != nil {
		return shared.NewTransientError("failed to increment tech level", result.Error)
	}
	return nil
}

func (r *GormEmpireRepository) currentBalance(ctx context.Context, id shared.EmpireID) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Model(&EmpireModel{}).
		Where("id = ?", id.Value()).
		Pluck("credits", &balance).Error
	if err != nil {
		return 0, shared.NewTransientError("failed to read balance", err)
	}
	return balance, nil
}
