package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Code string `json:"code" validate:"required,min=1,max=40"`
}

type UpdateLocationRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=120"`
	Code *string `json:"code" validate:"omitempty,min=1,max=40"`
}

type CreateStorageTypeRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	Name       string `json:"name"        validate:"required,min=2,max=120"`
	Code       string `json:"code"        validate:"required,min=1,max=40"`
}

type UpdateStorageTypeRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=120"`
	Code *string `json:"code" validate:"omitempty,min=1,max=40"`
}

type CreateStorageObjectRequest struct {
	StorageTypeID string `json:"storage_type_id" validate:"required,uuid"`
	Label         string `json:"label"           validate:"required,min=1,max=120"`
	Code          string `json:"code"            validate:"required,min=1,max=40"`
	Capacity      int    `json:"capacity"        validate:"min=0"`
}

type UpdateStorageObjectRequest struct {
	Label    *string `json:"label"    validate:"omitempty,min=1,max=120"`
	Code     *string `json:"code"     validate:"omitempty,min=1,max=40"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LocationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type StorageTypeResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

type StorageObjectResponse struct {
	ID            string `json:"id"`
	StorageTypeID string `json:"storage_type_id"`
	Label         string `json:"label"`
	Code          string `json:"code"`
	Capacity      int    `json:"capacity"`
	CreatedAt     string `json:"created_at"`
}
