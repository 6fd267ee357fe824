package repositories

import (
	"context"
	"errors"
	"fmt"

	"pipeline/src/models"

	"gorm.io/gorm"
)

var ErrSecurityNotFound = errors.New("security not found")

type SecurityRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.Security, error)
	GetByTicker(ctx context.Context, ticker string, tx *gorm.DB) (*models.Security, error)
	Create(ctx context.Context, security *models.Security, tx *gorm.DB) error
	DeleteByIDs(ctx context.Context, ids []uint, tx *gorm.DB) error
	// Transaction runs fn in a single transaction, committing when fn returns nil.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type securityRepo struct {
	db *gorm.DB
}

func NewSecurityRepository(db *gorm.DB) SecurityRepository {
	return &securityRepo{db: db}
}

// conn picks the caller's transaction when there is one.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func (r *securityRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]models.Security, error) {
	var securities []models.Security
	if err := conn(ctx, r.db, tx).Order("id").Find(&securities).Error; err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	return securities, nil
}

// GetByTicker matches the ticker case-insensitively; the stored casing is
// left as first inserted.
func (r *securityRepo) GetByTicker(ctx context.Context, ticker string, tx *gorm.DB) (*models.Security, error) {
	var security models.Security
	err := conn(ctx, r.db, tx).Where("LOWER(ticker) = LOWER(?)", ticker).Order("id").Take(&security).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}
	return &security, nil
}

func (r *securityRepo) Create(ctx context.Context, security *models.Security, tx *gorm.DB) error {
	if err := conn(ctx, r.db, tx).Create(security).Error; err != nil {
		return fmt.Errorf("failed to create security %s: %w", security.Ticker, err)
	}
	return nil
}

// DeleteByIDs removes the securities and their valuation history.
func (r *securityRepo) DeleteByIDs(ctx context.Context, ids []uint, tx *gorm.DB) error {
	if len(ids) == 0 {
		return nil
	}
	if tx == nil {
		return r.Transaction(ctx, func(tx *gorm.DB) error {
			return r.DeleteByIDs(ctx, ids, tx)
		})
	}

	db := tx.WithContext(ctx)
	if err := db.Where("security_id IN ?", ids).Delete(&models.Valuation{}).Error; err != nil {
		return fmt.Errorf("failed to delete valuations: %w", err)
	}
	if err := db.Where("id IN ?", ids).Delete(&models.Security{}).Error; err != nil {
		return fmt.Errorf("failed to delete securities: %w", err)
	}
	return nil
}

func (r *securityRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
