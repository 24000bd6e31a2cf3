package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddToBoxRequest struct {
	ProductType     string           `json:"product_type"      validate:"required,oneof=real_jewelry zakya_product"`
	ProductID       string           `json:"product_id"        validate:"required"`
	StorageObjectID string           `json:"storage_object_id" validate:"required,uuid"`
	Quantity        int              `json:"quantity"          validate:"required,gt=0"`
	SKU             string           `json:"sku"               validate:"required"`
	ProductName     string           `json:"product_name"      validate:"required"`
	MetalWeightG    *decimal.Decimal `json:"metal_weight_g"`
	PurityK         *int             `json:"purity_k"`
	MovedBy         string           `json:"moved_by"`
}

// TransferRequest moves quantity units out of a ledger entry into a target
// storage object. The from_location_id field name is a legacy wire alias:
// it identifies the source entry, not a Location row.
type TransferRequest struct {
	FromEntryID       string  `json:"from_location_id"     validate:"required,uuid"`
	ToStorageObjectID string  `json:"to_storage_object_id" validate:"required,uuid"`
	Quantity          int     `json:"quantity"             validate:"required,gt=0"`
	MovedBy           string  `json:"moved_by"`
	Reason            *string `json:"reason"`
	Notes             *string `json:"notes"`
}

// BulkTransferRequest moves the entire quantity of each listed entry to the
// target box. Each entry is transferred independently; one failure does not
// roll back the others.
type BulkTransferRequest struct {
	EntryIDs    []string `json:"entry_ids"     validate:"required,min=1,dive,uuid"`
	TargetBoxID string   `json:"target_box_id" validate:"required,uuid"`
	MovedBy     string   `json:"moved_by"`
	Reason      *string  `json:"reason"`
}

type UpdateQuantityRequest struct {
	NewQuantity *int    `json:"new_quantity" validate:"required,min=0"`
	UpdatedBy   string  `json:"updated_by"`
	Reason      *string `json:"reason"`
}

type RemoveRequest struct {
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	RemovedBy string  `json:"removed_by"`
	Reason    *string `json:"reason"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

// SearchFilter narrows ledger searches. All fields are optional and combined
// with AND; sku and product_name match case-insensitive substrings.
type SearchFilter struct {
	SKU             string `form:"sku"`
	ProductName     string `form:"product_name"`
	ProductType     string `form:"product_type"`
	StorageObjectID string `form:"storage_object_id"`
	StorageTypeID   string `form:"storage_type_id"`
	LocationID      string `form:"location_id"`
}

type MovementFilter struct {
	ProductType  string `form:"product_type"`
	ProductID    string `form:"product_id"`
	MovementType string `form:"movement_type"`
	MovedBy      string `form:"moved_by"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntryResponse struct {
	ID              string           `json:"id"`
	ProductType     string           `json:"product_type"`
	ProductID       string           `json:"product_id"`
	StorageObjectID string           `json:"storage_object_id"`
	Quantity        int              `json:"quantity"`
	SKU             string           `json:"sku"`
	ProductName     string           `json:"product_name"`
	MetalWeightG    *decimal.Decimal `json:"metal_weight_g,omitempty"`
	PurityK         *int             `json:"purity_k,omitempty"`
	// Denormalized hierarchy context, filled when the storage object resolves.
	StorageObjectCode string `json:"storage_object_code,omitempty"`
	StorageTypeName   string `json:"storage_type_name,omitempty"`
	LocationName      string `json:"location_name,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type MovementResponse struct {
	ID                  string  `json:"id"`
	EntryID             string  `json:"entry_id"`
	ProductType         string  `json:"product_type"`
	ProductID           string  `json:"product_id"`
	MovementType        string  `json:"movement_type"`
	FromStorageObjectID *string `json:"from_storage_object_id,omitempty"`
	ToStorageObjectID   *string `json:"to_storage_object_id,omitempty"`
	QuantityDelta       int     `json:"quantity_delta"`
	MovedBy             string  `json:"moved_by"`
	Reason              *string `json:"reason,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	Timestamp           string  `json:"timestamp"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// BulkTransferItemResult reports the outcome of one entry in a bulk transfer.
type BulkTransferItemResult struct {
	EntryID string `json:"entry_id"`
	Status  string `json:"status"` // "transferred" | "failed"
	Error   string `json:"error,omitempty"`
}

type BulkTransferResponse struct {
	Requested int                      `json:"requested"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	Results   []BulkTransferItemResult `json:"results"`
}

// ProductSummary aggregates all entries of one product.
type ProductSummary struct {
	ProductID          string   `json:"product_id"`
	ProductType        string   `json:"product_type"`
	ProductName        string   `json:"product_name"`
	TotalQuantity      int      `json:"total_quantity"`
	StorageObjectCodes []string `json:"storage_object_codes"`
	NumStorageObjects  int      `json:"num_storage_objects"`
}

type InventorySummaryResponse struct {
	LocationID *string          `json:"location_id,omitempty"`
	Products   []ProductSummary `json:"products"`
	Total      int              `json:"total"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type SummaryReportRequest struct {
	LocationID *string `json:"location_id" validate:"omitempty,uuid"`
	ToEmail    string  `json:"to_email"    validate:"omitempty,email"`
}

type SummaryReportResponse struct {
	Status string `json:"status"`
}
