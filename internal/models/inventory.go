// internal/models/inventory.go
package models

import (
	"github.com/google/uuid"
)

// InventoryLog is an append-only stock ledger entry. Rows are never updated
// or deleted; signed Quantity (negative = decrement) plus the Movement kind
// form the audit trail.
type InventoryLog struct {
	BaseModel
	ProductID   uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID `json:"variant_id" gorm:"type:uuid;index"`
	Quantity    int        `json:"quantity" gorm:"not null"`
	Movement    Movement   `json:"movement" gorm:"type:varchar(20);not null;index"`
	Reason      string     `json:"reason" gorm:"size:255"`
	ReferenceID *uuid.UUID `json:"reference_id" gorm:"type:uuid;index"`

	// Relationships
	Product *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variant *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}
