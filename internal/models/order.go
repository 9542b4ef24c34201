// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID          uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	Subtotal        float64     `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Shipping        float64     `json:"shipping" gorm:"type:decimal(10,2);default:0"`
	Discount        float64     `json:"discount" gorm:"type:decimal(10,2);default:0"`
	Tax             float64     `json:"tax" gorm:"type:decimal(10,2);not null"`
	Total           float64     `json:"total" gorm:"type:decimal(10,2);not null"`
	ShippingAddress JSONB       `json:"shipping_address" gorm:"type:jsonb"`
	BillingAddress  JSONB       `json:"billing_address" gorm:"type:jsonb"`
	Notes           string      `json:"notes,omitempty" gorm:"type:text"`
	TrackingNumber  string      `json:"tracking_number,omitempty" gorm:"size:100"`
	DeliveryDate    *time.Time  `json:"delivery_date,omitempty"`

	// Relationships
	User     *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Payments []Payment   `json:"payments,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem captures unit price at order time; it is a snapshot, not a live
// reference to the catalog price.
type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID `json:"product_id" gorm:"type:uuid;index"`
	VariantID       *uuid.UUID `json:"variant_id" gorm:"type:uuid;index"`
	Quantity        int        `json:"quantity" gorm:"not null"`
	UnitPrice       float64    `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice      float64    `json:"total_price" gorm:"type:decimal(10,2);not null"`
	DiscountApplied float64    `json:"discount_applied" gorm:"type:decimal(10,2);default:0"`

	// Relationships
	Product *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variant *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}

type Payment struct {
	BaseModel
	OrderID   uuid.UUID     `json:"order_id" gorm:"type:uuid;not null;index"`
	Gateway   string        `json:"gateway" gorm:"size:50;not null"`
	GatewayID string        `json:"gateway_id" gorm:"size:255;index:idx_payments_gateway_id,unique,where:gateway_id <> ''"`
	Amount    float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency  string        `json:"currency" gorm:"size:10;default:'usd'"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Metadata  JSONB         `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// WebhookEvent records every gateway event id we have applied, so redelivered
// webhooks are no-ops.
type WebhookEvent struct {
	BaseModel
	Gateway     string     `json:"gateway" gorm:"size:50;not null;uniqueIndex:idx_webhook_events_gateway_event"`
	EventID     string     `json:"event_id" gorm:"size:255;not null;uniqueIndex:idx_webhook_events_gateway_event"`
	EventType   string     `json:"event_type" gorm:"size:100"`
	ProcessedAt *time.Time `json:"processed_at"`
}
