package repositories

import (
	"context"
	"fmt"
	"time"

	"pipeline/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ValuationRepository interface {
	Upsert(ctx context.Context, v *models.Valuation, tx *gorm.DB) error
	GetByDate(ctx context.Context, date time.Time) ([]models.Valuation, error)
}

type valuationRepo struct {
	db *gorm.DB
}

func NewValuationRepository(db *gorm.DB) ValuationRepository {
	return &valuationRepo{db: db}
}

// Upsert inserts the valuation or overwrites the value already recorded
// for the same security and date.
func (r *valuationRepo) Upsert(ctx context.Context, v *models.Valuation, tx *gorm.DB) error {
	err := conn(ctx, r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "security_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return fmt.Errorf("failed to upsert valuation for security %d: %w", v.SecurityID, err)
	}
	return nil
}

func (r *valuationRepo) GetByDate(ctx context.Context, date time.Time) ([]models.Valuation, error) {
	var valuations []models.Valuation
	err := r.db.WithContext(ctx).
		Preload("Security").
		Where("date = ?", date).
		Order("security_id").
		Find(&valuations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return valuations, nil
}
