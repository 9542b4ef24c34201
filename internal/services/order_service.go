// internal/services/order_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type OrderService struct {
	db     *gorm.DB
	config *config.Config
}

type OrderItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1"`
	ShippingAddress map[string]interface{} `json:"shipping_address" binding:"required"`
	BillingAddress  map[string]interface{} `json:"billing_address"`
	Notes           string                 `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status         models.OrderStatus `json:"status" binding:"required"`
	TrackingNumber string             `json:"tracking_number"`
	DeliveryDate   *time.Time         `json:"delivery_date"`
}

type OrderFilter struct {
	UserID *uuid.UUID
	Status string
}

func NewOrderService(db *gorm.DB, config *config.Config) *OrderService {
	return &OrderService{db: db, config: config}
}

// Create places an order atomically: every item is priced and its stock
// checked under a row lock, stock is decremented, a sale entry is written to
// the inventory ledger per item, and a pending payment stub is created. Any
// failure rolls the whole order back.
func (s *OrderService) Create(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: models.JSONB(req.ShippingAddress),
		BillingAddress:  models.JSONB(req.BillingAddress),
		Notes:           req.Notes,
	}
	if order.BillingAddress == nil {
		order.BillingAddress = order.ShippingAddress
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64

		for _, item := range req.Items {
			var product models.Product
			if err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&product, "id = ? AND is_active = ?", item.ProductID, true).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
				}
				return apperrors.Internal("failed to load product", err)
			}

			var unitPrice float64

			if item.VariantID != nil {
				if product.Type != models.ProductTypeVariable {
					return apperrors.Validation("variant specified for a simple product")
				}

				var variant models.ProductVariant
				if err := tx.Set("gorm:query_option", "FOR UPDATE").
					First(&variant, "id = ? AND product_id = ? AND is_active = ?",
						item.VariantID, item.ProductID, true).Error; err != nil {
					if err == gorm.ErrRecordNotFound {
						return apperrors.NotFound(fmt.Sprintf("variant %s not found", item.VariantID))
					}
					return apperrors.Internal("failed to load variant", err)
				}

				if variant.Stock < item.Quantity {
					return apperrors.Conflict(fmt.Sprintf(
						"insufficient stock for variant %s: %d available, %d requested",
						variant.ID, variant.Stock, item.Quantity))
				}

				if err := tx.Model(&models.ProductVariant{}).
					Where("id = ?", variant.ID).
					Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
					return apperrors.Internal("failed to decrement variant stock", err)
				}

				unitPrice = variant.Price
			} else {
				if product.Type == models.ProductTypeVariable {
					return apperrors.Validation("variant is required for a variable product")
				}
				if product.BasePrice == nil {
					return apperrors.Validation(fmt.Sprintf("product %s has no price", product.ID))
				}

				if product.Stock < item.Quantity {
					return apperrors.Conflict(fmt.Sprintf(
						"insufficient stock for product %s: %d available, %d requested",
						product.ID, product.Stock, item.Quantity))
				}

				if err := tx.Model(&models.Product{}).
					Where("id = ?", product.ID).
					Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
					return apperrors.Internal("failed to decrement product stock", err)
				}

				unitPrice = *product.BasePrice
			}

			lineTotal := utils.Round2(unitPrice * float64(item.Quantity))
			subtotal += lineTotal

			productID := item.ProductID
			order.Items = append(order.Items, models.OrderItem{
				ProductID:  &productID,
				VariantID:  item.VariantID,
				Quantity:   item.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: lineTotal,
			})
		}

		order.Subtotal = utils.Round2(subtotal)
		order.Tax = utils.Round2(order.Subtotal * s.config.Order.TaxRate)
		order.Total = utils.Round2(order.Subtotal + order.Shipping + order.Tax - order.Discount)

		if err := tx.Create(order).Error; err != nil {
			return apperrors.Internal("failed to create order", err)
		}

		for _, item := range order.Items {
			log := models.InventoryLog{
				ProductID:   *item.ProductID,
				VariantID:   item.VariantID,
				Quantity:    -item.Quantity,
				Movement:    models.MovementSale,
				Reason:      "order placed",
				ReferenceID: &order.ID,
			}
			if err := tx.Create(&log).Error; err != nil {
				return apperrors.Internal("failed to record inventory movement", err)
			}
		}

		// Pending stub so every order carries a payment row even before the
		// gateway is involved.
		payment := models.Payment{
			OrderID:  order.ID,
			Gateway:  "manual",
			Amount:   order.Total,
			Currency: "usd",
			Status:   models.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return apperrors.Internal("failed to create payment record", err)
		}
		order.Payments = append(order.Payments, payment)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(order.ID, userID, false)
}

// GetByID fetches an order; non-admin callers can only see their own orders.
// A foreign order reads as not found rather than forbidden, so order IDs
// cannot be probed.
func (s *OrderService) GetByID(orderID, requesterID uuid.UUID, isAdmin bool) (*models.Order, error) {
	query := s.db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		Preload("Payments")

	if !isAdmin {
		query = query.Where("user_id = ?", requesterID)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to fetch order", err)
	}
	return &order, nil
}

func (s *OrderService) List(filter OrderFilter, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count orders", err)
	}

	allowedSortFields := []string{"created_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Preload("Payments").Find(&orders).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch orders", err)
	}

	return orders, total, nil
}

var orderStatusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func isValidTransition(from, to models.OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateStatus advances an order through its lifecycle. Cancellation goes
// through Cancel so stock restoration is never skipped.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if req.Status == models.OrderStatusCancelled {
		if err := s.Cancel(orderID, uuid.Nil, true); err != nil {
			return nil, err
		}
		return s.GetByID(orderID, uuid.Nil, true)
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to fetch order", err)
	}

	if !isValidTransition(order.Status, req.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"cannot transition order from %s to %s", order.Status, req.Status))
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}
	if req.DeliveryDate != nil {
		updates["delivery_date"] = req.DeliveryDate
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update order status", err)
	}

	return s.GetByID(orderID, uuid.Nil, true)
}

// Cancel cancels an order and restores its stock with return entries in the
// inventory ledger. Cancelling an already-cancelled order is a no-op, so the
// restoration never double-applies. Customers may only cancel their own
// pending orders; admins may cancel pending or processing ones.
func (s *OrderService) Cancel(orderID, requesterID uuid.UUID, isAdmin bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		query := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Items")
		if !isAdmin {
			query = query.Where("user_id = ?", requesterID)
		}
		if err := query.First(&order, "id = ?", orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("order not found")
			}
			return apperrors.Internal("failed to fetch order", err)
		}

		if order.Status == models.OrderStatusCancelled {
			return nil
		}

		switch order.Status {
		case models.OrderStatusPending:
		case models.OrderStatusProcessing:
			if !isAdmin {
				return apperrors.Conflict("only pending orders can be cancelled")
			}
		default:
			return apperrors.Conflict(fmt.Sprintf("cannot cancel order in %s status", order.Status))
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := applyStockDelta(tx, *item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
			log := models.InventoryLog{
				ProductID:   *item.ProductID,
				VariantID:   item.VariantID,
				Quantity:    item.Quantity,
				Movement:    models.MovementReturn,
				Reason:      "order cancelled",
				ReferenceID: &order.ID,
			}
			if err := tx.Create(&log).Error; err != nil {
				return apperrors.Internal("failed to record inventory movement", err)
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return apperrors.Internal("failed to cancel order", err)
		}

		return nil
	})
}
