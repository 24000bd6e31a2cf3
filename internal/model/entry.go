package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product kinds tracked by the ledger. Real jewelry carries metal weight and
// purity; zakya products are plain catalog items.
const (
	ProductTypeRealJewelry = "real_jewelry"
	ProductTypeZakya       = "zakya_product"
)

// ProductEntry is the ledger's current-state row: one (product, storage
// object) pairing with a quantity. A product may have many entries, one per
// storage object. Rows are deleted when their quantity reaches zero; the
// Movement trail is the durable record of what happened.
//
// ProductID is an opaque reference into the external product catalog — the
// ledger never dereferences it.
type ProductEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductType     string    `gorm:"type:varchar(20);not null;index:idx_entries_product"`
	ProductID       string    `gorm:"not null;index:idx_entries_product"`
	StorageObjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity        int       `gorm:"not null"`
	SKU             string    `gorm:"index;not null"`
	ProductName     string    `gorm:"not null"`
	// MetalWeightG and PurityK are required when ProductType is real_jewelry.
	MetalWeightG *decimal.Decimal `gorm:"type:decimal(10,3)"`
	PurityK      *int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	StorageObject *StorageObject `gorm:"foreignKey:StorageObjectID"`
}

// TableName keeps the table name aligned with the wire vocabulary.
func (ProductEntry) TableName() string { return "product_entries" }
