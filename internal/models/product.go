// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	SKU         string      `json:"sku" gorm:"uniqueIndex;size:100;not null"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Name        string      `json:"name" gorm:"size:255;not null"`
	Description string      `json:"description" gorm:"type:text"`
	Type        ProductType `json:"type" gorm:"type:varchar(20);default:'SIMPLE';index"`
	BasePrice   *float64    `json:"base_price" gorm:"type:decimal(10,2)"`
	Stock       int         `json:"stock" gorm:"default:0"`
	MinStock    int         `json:"min_stock" gorm:"default:5"`
	IsActive    bool        `json:"is_active" gorm:"default:true;index"`

	Tags pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`

	// Computed on catalog listings, not a column.
	AverageRating float64 `json:"average_rating,omitempty" gorm:"->;-:migration"`

	// Relationships
	Categories []Category         `json:"categories,omitempty" gorm:"many2many:product_categories"`
	Variants   []ProductVariant   `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Images     []ProductImage     `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Attributes []ProductAttribute `json:"attributes,omitempty" gorm:"foreignKey:ProductID"`
	Reviews    []ProductReview    `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	SKUSuffix string    `json:"sku_suffix" gorm:"size:100;not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int       `json:"stock" gorm:"default:0"`
	MinStock  int       `json:"min_stock" gorm:"default:5"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`

	// Free-form attributes such as color/size
	Attributes JSONB `json:"attributes" gorm:"type:jsonb"`

	// Relationships
	Product *Product              `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Images  []ProductVariantImage `json:"images,omitempty" gorm:"foreignKey:VariantID"`
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"size:1024;not null"`
	AltText   string    `json:"alt_text" gorm:"size:255"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
}

type ProductVariantImage struct {
	BaseModel
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"size:1024;not null"`
	AltText   string    `json:"alt_text" gorm:"size:255"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
}

type ProductAttribute struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Value     string    `json:"value" gorm:"size:255;not null"`
}
