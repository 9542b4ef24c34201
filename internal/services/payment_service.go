// internal/services/payment_service.go
package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	orders *OrderService
}

type CreatePaymentIntentRequest struct {
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
	Currency string    `json:"currency"`
}

type PaymentIntentResponse struct {
	ClientSecret string    `json:"client_secret"`
	PaymentID    uuid.UUID `json:"payment_id"`
	GatewayID    string    `json:"gateway_id"`
	Status       string    `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type RefundRequest struct {
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason" binding:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, orders *OrderService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
		orders: orders,
	}
}

// CreatePaymentIntent opens a gateway payment for a pending order. The
// amount always comes from the order row, never from the client.
func (s *PaymentService) CreatePaymentIntent(userID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ? AND user_id = ?", req.OrderID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to fetch order", err)
	}

	if order.Status != models.OrderStatusPending {
		return nil, apperrors.Conflict("order is not awaiting payment")
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(utils.ToMinorUnits(order.Total)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.Gateway("failed to create payment intent", err)
	}

	payment := &models.Payment{
		OrderID:   order.ID,
		Gateway:   "stripe",
		GatewayID: pi.ID,
		Amount:    order.Total,
		Currency:  currency,
		Status:    models.PaymentStatusPending,
		Metadata: models.JSONB{
			"client_secret": pi.ClientSecret,
		},
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Internal("failed to create payment record", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    payment.ID,
		GatewayID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment re-fetches the intent from the gateway and applies its
// status. The gateway is the source of truth; the client only tells us which
// intent to look at.
func (s *PaymentService) ConfirmPayment(userID uuid.UUID, req *ConfirmPaymentRequest) (*models.Payment, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, apperrors.Gateway("failed to fetch payment intent", err)
	}

	var payment models.Payment
	if err := s.db.Preload("Order").
		First(&payment, "gateway_id = ? AND gateway = ?", req.PaymentIntentID, "stripe").Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, apperrors.Internal("failed to fetch payment", err)
	}
	if payment.Order == nil || payment.Order.UserID != userID {
		return nil, apperrors.NotFound("payment not found")
	}

	if err := s.applyIntentStatus(s.db, &payment, pi); err != nil {
		return nil, err
	}

	return &payment, nil
}

// applyIntentStatus maps the gateway intent status onto the payment row and,
// on success, moves the order to processing. Safe to call more than once for
// the same intent.
func (s *PaymentService) applyIntentStatus(db *gorm.DB, payment *models.Payment, pi *stripe.PaymentIntent) error {
	var status models.PaymentStatus

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = models.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusProcessing:
		status = models.PaymentStatusPending
	default:
		status = models.PaymentStatusFailed
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Update("status", status).Error; err != nil {
			return apperrors.Internal("failed to update payment", err)
		}
		payment.Status = status

		if status == models.PaymentStatusSucceeded {
			if err := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", payment.OrderID, models.OrderStatusPending).
				Update("status", models.OrderStatusProcessing).Error; err != nil {
				return apperrors.Internal("failed to update order status", err)
			}
		}
		return nil
	})
}

// Refund issues a gateway refund. A full refund marks the payment refunded
// and cancels the order, restoring its stock. A partial refund cancels the
// order only when configured to.
func (s *PaymentService) Refund(req *RefundRequest) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Order").First(&payment, "id = ?", req.PaymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, apperrors.Internal("failed to fetch payment", err)
	}

	if payment.Status != models.PaymentStatusSucceeded {
		return nil, apperrors.Conflict("only succeeded payments can be refunded")
	}

	refundAmount := req.Amount
	if refundAmount <= 0 || refundAmount > payment.Amount {
		refundAmount = payment.Amount
	}
	fullRefund := refundAmount >= payment.Amount

	if payment.GatewayID != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(payment.GatewayID),
			Amount:        stripe.Int64(utils.ToMinorUnits(refundAmount)),
			Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
		}
		if _, err := refund.New(params); err != nil {
			return nil, apperrors.Gateway("failed to process refund", err)
		}
	}

	metadata := models.JSONB{}
	for k, v := range payment.Metadata {
		metadata[k] = v
	}
	metadata["refund_amount"] = refundAmount
	metadata["refund_reason"] = req.Reason
	metadata["refunded_at"] = time.Now().UTC().Format(time.RFC3339)

	updates := map[string]interface{}{"metadata": metadata}
	if fullRefund {
		updates["status"] = models.PaymentStatusRefunded
	}

	if err := s.db.Model(&payment).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update payment", err)
	}
	payment.Metadata = metadata
	if fullRefund {
		payment.Status = models.PaymentStatusRefunded
	}

	if fullRefund || s.config.Payment.CancelOrderOnPartialRefund {
		if err := s.orders.Cancel(payment.OrderID, uuid.Nil, true); err != nil {
			if apperrors.KindOf(err) != apperrors.KindConflict {
				return nil, err
			}
			logrus.WithFields(logrus.Fields{
				"order_id":   payment.OrderID,
				"payment_id": payment.ID,
			}).Warn("Refunded order could not be cancelled")
		}
	}

	return &payment, nil
}

func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count payments", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch payments", err)
	}

	return payments, total, nil
}

func (s *PaymentService) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Order").First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, apperrors.Internal("failed to fetch payment", err)
	}
	return &payment, nil
}

// ListPayments returns all payments across users, optionally filtered by
// status.
func (s *PaymentService) ListPayments(status string, params utils.PaginationParams) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count payments", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payments []models.Payment
	if err := query.Preload("Order").Find(&payments).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch payments", err)
	}

	return payments, total, nil
}

// HandleWebhook verifies the gateway signature, deduplicates by event id and
// applies the event. Redelivered events return successfully without touching
// anything.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.Payment.StripeWebhookSecret)
	if err != nil {
		return apperrors.Unauthorized("invalid webhook signature")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		record := models.WebhookEvent{
			Gateway:     "stripe",
			EventID:     event.ID,
			EventType:   string(event.Type),
			ProcessedAt: &now,
		}
		result := tx.Where("gateway = ? AND event_id = ?", "stripe", event.ID).
			FirstOrCreate(&record)
		if result.Error != nil {
			return apperrors.Internal("failed to record webhook event", result.Error)
		}
		if result.RowsAffected == 0 {
			// Already processed
			return nil
		}

		switch event.Type {
		case "payment_intent.succeeded", "payment_intent.payment_failed":
			return s.handleIntentEvent(tx, &event)
		case "charge.refunded":
			return s.handleRefundEvent(tx, &event)
		default:
			logrus.WithField("event_type", event.Type).Debug("Ignoring webhook event")
			return nil
		}
	})
}

func (s *PaymentService) handleIntentEvent(tx *gorm.DB, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return apperrors.Internal("failed to parse webhook payload", err)
	}

	var payment models.Payment
	if err := tx.First(&payment, "gateway_id = ? AND gateway = ?", pi.ID, "stripe").Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// An intent we did not create; nothing to update.
			logrus.WithField("intent_id", pi.ID).Warn("Webhook for unknown payment intent")
			return nil
		}
		return apperrors.Internal("failed to fetch payment", err)
	}

	return s.applyIntentStatus(tx, &payment, &pi)
}

func (s *PaymentService) handleRefundEvent(tx *gorm.DB, event *stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return apperrors.Internal("failed to parse webhook payload", err)
	}
	if charge.PaymentIntent == nil {
		return nil
	}

	var payment models.Payment
	if err := tx.First(&payment, "gateway_id = ? AND gateway = ?", charge.PaymentIntent.ID, "stripe").Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return apperrors.Internal("failed to fetch payment", err)
	}

	if payment.Status == models.PaymentStatusRefunded {
		return nil
	}

	fullRefund := charge.AmountRefunded >= utils.ToMinorUnits(payment.Amount)

	metadata := models.JSONB{}
	for k, v := range payment.Metadata {
		metadata[k] = v
	}
	metadata["refund_amount"] = float64(charge.AmountRefunded) / 100
	metadata["refunded_at"] = time.Now().UTC().Format(time.RFC3339)

	updates := map[string]interface{}{"metadata": metadata}
	if fullRefund {
		updates["status"] = models.PaymentStatusRefunded
	}
	if err := tx.Model(&payment).Updates(updates).Error; err != nil {
		return apperrors.Internal("failed to update payment", err)
	}

	if fullRefund || s.config.Payment.CancelOrderOnPartialRefund {
		if err := s.cancelWithinTx(tx, payment.OrderID); err != nil {
			return err
		}
	}

	return nil
}

// cancelWithinTx mirrors OrderService.Cancel but runs inside the webhook's
// transaction so dedup record, payment update and cancellation commit
// together.
func (s *PaymentService) cancelWithinTx(tx *gorm.DB, orderID uuid.UUID) error {
	var order models.Order
	if err := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Items").
		First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("order not found")
		}
		return apperrors.Internal("failed to fetch order", err)
	}

	if order.Status == models.OrderStatusCancelled {
		return nil
	}
	if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered {
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"status":   order.Status,
		}).Warn("Refunded order already shipped; leaving status unchanged")
		return nil
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
			Reason:      "payment refunded",
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
}
