package model

import (
	"time"

	"github.com/google/uuid"
)

// StorageType groups storage objects within a location (a shelf or display
// case category). Belongs to exactly one Location. Deactivating a Location
// does not cascade; inactive parents only disappear from active listings.
type StorageType struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`
	Code       string    `gorm:"not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}

// StorageObject is an individual physical container (a box) within a storage
// type. Capacity is an advisory upper bound on total units; it is surfaced in
// listings and warned on, never enforced.
type StorageObject struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StorageTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label         string    `gorm:"not null"`
	Code          string    `gorm:"not null"`
	Capacity      int       `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	StorageType *StorageType `gorm:"foreignKey:StorageTypeID"`
}
