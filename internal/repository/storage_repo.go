package repository

import (
	"context"

	"minakistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageTypeRepository defines CRUD operations for storage types.
type StorageTypeRepository interface {
	Create(ctx context.Context, st *model.StorageType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StorageType, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]model.StorageType, error)
	Update(ctx context.Context, st *model.StorageType) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type storageTypeRepo struct{ db *gorm.DB }

func NewStorageTypeRepository(db *gorm.DB) StorageTypeRepository {
	return &storageTypeRepo{db: db}
}

func (r *storageTypeRepo) Create(ctx context.Context, st *model.StorageType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *storageTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StorageType, error) {
	var st model.StorageType
	err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *storageTypeRepo) ListByLocation(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]model.StorageType, error) {
	var list []model.StorageType
	q := r.db.WithContext(ctx).Where("location_id = ?", locationID).Order("created_at asc")
	if activeOnly {
		q = q.Where("is_active = true")
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *storageTypeRepo) Update(ctx context.Context, st *model.StorageType) error {
	return r.db.WithContext(ctx).Save(st).Error
}

func (r *storageTypeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.StorageType{}).Where("id = ?", id).Update("is_active", false).Error
}

// StorageObjectRepository defines CRUD operations for storage objects (boxes).
type StorageObjectRepository interface {
	Create(ctx context.Context, so *model.StorageObject) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StorageObject, error)
	ListByStorageType(ctx context.Context, storageTypeID uuid.UUID) ([]model.StorageObject, error)
	Update(ctx context.Context, so *model.StorageObject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storageObjectRepo struct{ db *gorm.DB }

func NewStorageObjectRepository(db *gorm.DB) StorageObjectRepository {
	return &storageObjectRepo{db: db}
}

func (r *storageObjectRepo) Create(ctx context.Context, so *model.StorageObject) error {
	return r.db.WithContext(ctx).Create(so).Error
}

func (r *storageObjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StorageObject, error) {
	var so model.StorageObject
	err := r.db.WithContext(ctx).Preload("StorageType").First(&so, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *storageObjectRepo) ListByStorageType(ctx context.Context, storageTypeID uuid.UUID) ([]model.StorageObject, error) {
	var list []model.StorageObject
	err := r.db.WithContext(ctx).
		Where("storage_type_id = ?", storageTypeID).
		Order("created_at asc").
		Find(&list).Error
	return list, err
}

func (r *storageObjectRepo) Update(ctx context.Context, so *model.StorageObject) error {
	return r.db.WithContext(ctx).Save(so).Error
}

func (r *storageObjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StorageObject{}, "id = ?", id).Error
}
