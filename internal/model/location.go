package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical store or building, the top of the storage hierarchy.
// Soft-deleted via IsActive=false; never hard-deleted while storage types
// reference it.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Code      string    `gorm:"uniqueIndex;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
