// internal/models/category.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:255;not null"`
	Slug     string     `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	IsActive bool       `json:"is_active" gorm:"default:true"`

	// Normalized attribute schema shared by products in this category
	AttributesNormalized JSONB `json:"attributes_normalized" gorm:"type:jsonb"`

	// Computed on listings, not a column.
	ProductCount int64 `json:"product_count,omitempty" gorm:"->;-:migration"`

	// Relationships
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product  `json:"products,omitempty" gorm:"many2many:product_categories"`
}
