package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types recorded in the audit trail.
const (
	MovementAdd            = "add"
	MovementTransfer       = "transfer"
	MovementQuantityUpdate = "quantity_update"
	MovementRemove         = "remove"
)

// Movement is the append-only audit record for every quantity-affecting
// operation. Rows are never mutated or deleted. The product reference is
// denormalized so history survives entry deletion (entries disappear when
// their quantity reaches zero).
type Movement struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductType         string     `gorm:"type:varchar(20);not null;index:idx_movements_product"`
	ProductID           string     `gorm:"not null;index:idx_movements_product"`
	MovementType        string     `gorm:"type:varchar(20);not null"`
	FromStorageObjectID *uuid.UUID `gorm:"type:uuid"`
	ToStorageObjectID   *uuid.UUID `gorm:"type:uuid"`
	// QuantityDelta is the signed change applied to the source entry:
	// positive for add and transfer-in, negative for remove and transfer-out.
	QuantityDelta int    `gorm:"not null"`
	MovedBy       string `gorm:"not null"`
	Reason        *string
	Notes         *string
	CreatedAt     time.Time `gorm:"index"`
}
