package repository

import (
	"context"

	"minakistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository defines the data access contract for locations.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context, activeOnly bool) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepo) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	var list []model.Location
	q := r.db.WithContext(ctx).Order("created_at asc")
	if activeOnly {
		q = q.Where("is_active = true")
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *locationRepo) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Location{}).Where("id = ?", id).Update("is_active", false).Error
}
