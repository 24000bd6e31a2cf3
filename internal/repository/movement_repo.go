package repository

import (
	"context"

	"minakistock/internal/dto"
	"minakistock/internal/model"

	"gorm.io/gorm"
)

// MovementRepository persists the append-only audit trail. There is no update
// or delete on purpose.
type MovementRepository interface {
	Create(ctx context.Context, m *model.Movement) error
	CreateTx(tx *gorm.DB, m *model.Movement) error
	// ListByProduct returns a product's history across all its entries,
	// most recent first, capped at limit.
	ListByProduct(ctx context.Context, productType, productID string, limit int) ([]model.Movement, error)
	List(ctx context.Context, filter dto.MovementFilter) ([]model.Movement, int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.Movement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) ListByProduct(ctx context.Context, productType, productID string, limit int) ([]model.Movement, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var movements []model.Movement
	err := r.db.WithContext(ctx).
		Where("product_type = ? AND product_id = ?", productType, productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.Movement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movement{})
	if filter.ProductType != "" {
		q = q.Where("product_type = ?", filter.ProductType)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	if filter.MovedBy != "" {
		q = q.Where("moved_by = ?", filter.MovedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	var movements []model.Movement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}
