package repository

import (
	"context"

	"minakistock/internal/dto"
	"minakistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryRepository is the data access contract for ledger entries.
//
// The ...Tx variants run against a caller-supplied transaction and take
// SELECT ... FOR UPDATE row locks where noted, so that concurrent decrements
// of the same entry serialize and quantity can never be observed negative.
type EntryRepository interface {
	Create(ctx context.Context, e *model.ProductEntry) error
	CreateTx(tx *gorm.DB, e *model.ProductEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductEntry, error)
	// FindByIDForUpdateTx locks the entry row until the transaction commits.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductEntry, error)
	// FindMergeTargetTx locks and returns an existing entry for the same
	// product in the destination box, excluding the source entry itself.
	// Returns gorm.ErrRecordNotFound when the destination has no such entry.
	FindMergeTargetTx(tx *gorm.DB, productType, productID string, storageObjectID, excludeID uuid.UUID) (*model.ProductEntry, error)
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	Search(ctx context.Context, filter dto.SearchFilter) ([]model.ProductEntry, error)
	FindByProduct(ctx context.Context, productType, productID string) ([]model.ProductEntry, error)
	// ListForSummary returns all entries (optionally restricted to one
	// location) with the storage hierarchy preloaded for aggregation.
	ListForSummary(ctx context.Context, locationID *uuid.UUID) ([]model.ProductEntry, error)
	// SumQuantityByObjectTx totals the units currently held in one box.
	SumQuantityByObjectTx(tx *gorm.DB, storageObjectID uuid.UUID) (int, error)
	// HasEntriesForObject reports whether any entry still references the box.
	HasEntriesForObject(ctx context.Context, storageObjectID uuid.UUID) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type entryRepo struct{ db *gorm.DB }

func NewEntryRepository(db *gorm.DB) EntryRepository { return &entryRepo{db: db} }

func (r *entryRepo) Create(ctx context.Context, e *model.ProductEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entryRepo) CreateTx(tx *gorm.DB, e *model.ProductEntry) error {
	return tx.Create(e).Error
}

func (r *entryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductEntry, error) {
	var e model.ProductEntry
	err := r.db.WithContext(ctx).
		Preload("StorageObject").
		Preload("StorageObject.StorageType").
		Preload("StorageObject.StorageType.Location").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entryRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductEntry, error) {
	var e model.ProductEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entryRepo) FindMergeTargetTx(tx *gorm.DB, productType, productID string, storageObjectID, excludeID uuid.UUID) (*model.ProductEntry, error) {
	var e model.ProductEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_type = ? AND product_id = ? AND storage_object_id = ? AND id <> ?",
			productType, productID, storageObjectID, excludeID).
		Order("created_at asc").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entryRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.ProductEntry{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *entryRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ProductEntry{}, "id = ?", id).Error
}

func (r *entryRepo) Search(ctx context.Context, filter dto.SearchFilter) ([]model.ProductEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductEntry{}).
		Preload("StorageObject").
		Preload("StorageObject.StorageType").
		Preload("StorageObject.StorageType.Location")

	if filter.SKU != "" {
		q = q.Where("product_entries.sku ILIKE ?", "%"+filter.SKU+"%")
	}
	if filter.ProductName != "" {
		q = q.Where("product_entries.product_name ILIKE ?", "%"+filter.ProductName+"%")
	}
	if filter.ProductType != "" {
		q = q.Where("product_entries.product_type = ?", filter.ProductType)
	}
	if filter.StorageObjectID != "" {
		q = q.Where("product_entries.storage_object_id = ?", filter.StorageObjectID)
	}
	// Hierarchy filters resolve through the storage object join.
	if filter.StorageTypeID != "" || filter.LocationID != "" {
		q = q.Joins("JOIN storage_objects ON storage_objects.id = product_entries.storage_object_id")
		if filter.StorageTypeID != "" {
			q = q.Where("storage_objects.storage_type_id = ?", filter.StorageTypeID)
		}
		if filter.LocationID != "" {
			q = q.Joins("JOIN storage_types ON storage_types.id = storage_objects.storage_type_id").
				Where("storage_types.location_id = ?", filter.LocationID)
		}
	}

	var entries []model.ProductEntry
	err := q.Order("product_entries.created_at asc").Find(&entries).Error
	return entries, err
}

func (r *entryRepo) FindByProduct(ctx context.Context, productType, productID string) ([]model.ProductEntry, error) {
	var entries []model.ProductEntry
	err := r.db.WithContext(ctx).
		Preload("StorageObject").
		Preload("StorageObject.StorageType").
		Preload("StorageObject.StorageType.Location").
		Where("product_type = ? AND product_id = ?", productType, productID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepo) ListForSummary(ctx context.Context, locationID *uuid.UUID) ([]model.ProductEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductEntry{}).
		Preload("StorageObject").
		Preload("StorageObject.StorageType")

	if locationID != nil {
		q = q.Joins("JOIN storage_objects ON storage_objects.id = product_entries.storage_object_id").
			Joins("JOIN storage_types ON storage_types.id = storage_objects.storage_type_id").
			Where("storage_types.location_id = ?", *locationID)
	}

	var entries []model.ProductEntry
	err := q.Find(&entries).Error
	return entries, err
}

func (r *entryRepo) SumQuantityByObjectTx(tx *gorm.DB, storageObjectID uuid.UUID) (int, error) {
	var total int64
	err := tx.Model(&model.ProductEntry{}).
		Where("storage_object_id = ?", storageObjectID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *entryRepo) HasEntriesForObject(ctx context.Context, storageObjectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductEntry{}).
		Where("storage_object_id = ?", storageObjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *entryRepo) DB() *gorm.DB { return r.db }
