// internal/models/template.go
package models

import (
	"github.com/google/uuid"
)

// DesignTemplate bundles catalog products into a curated room design with an
// aggregate price.
type DesignTemplate struct {
	BaseModel
	Name          string  `json:"name" gorm:"size:255;not null"`
	Slug          string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description   string  `json:"description" gorm:"type:text"`
	RoomType      string  `json:"room_type" gorm:"size:100;index"`
	Style         string  `json:"style" gorm:"size:100;index"`
	Discount      float64 `json:"discount" gorm:"type:decimal(5,4);default:0"`
	TotalPrice    float64 `json:"total_price" gorm:"type:decimal(10,2);not null"`
	CoverImageURL string  `json:"cover_image_url" gorm:"size:1024"`
	Featured      bool    `json:"featured" gorm:"default:false"`
	IsActive      bool    `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Products []TemplateProduct `json:"products,omitempty" gorm:"foreignKey:TemplateID"`
}

type TemplateProduct struct {
	BaseModel
	TemplateID uuid.UUID `json:"template_id" gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity   int       `json:"quantity" gorm:"default:1"`
	IsOptional bool      `json:"is_optional" gorm:"default:false"`
	Notes      string    `json:"notes" gorm:"type:text"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
