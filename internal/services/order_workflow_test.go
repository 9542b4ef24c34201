// internal/services/order_workflow_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/models"
)

func seedCustomer(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := models.User{
		Email:        "shopper@example.com",
		PasswordHash: "irrelevant",
		FullName:     "Test Shopper",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedSimpleProduct(t *testing.T, db *gorm.DB, sku string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		SKU:       sku,
		Slug:      sku,
		Name:      sku,
		Type:      models.ProductTypeSimple,
		BasePrice: &price,
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedVariableProduct(t *testing.T, db *gorm.DB, sku string, price float64, stock int) (models.Product, models.ProductVariant) {
	t.Helper()
	product := models.Product{
		SKU:      sku,
		Slug:     sku,
		Name:     sku,
		Type:     models.ProductTypeVariable,
		IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)
	variant := models.ProductVariant{
		ProductID: product.ID,
		SKUSuffix: "L",
		Price:     price,
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&variant).Error)
	return product, variant
}

func TestOrderCreateWritesSaleLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testConfig())
	userID := seedCustomer(t, db)

	lamp := seedSimpleProduct(t, db, "lamp-01", 100, 10)
	sofa, sofaL := seedVariableProduct(t, db, "sofa-01", 40, 5)

	order, err := svc.Create(userID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: lamp.ID, Quantity: 2},
			{ProductID: sofa.ID, VariantID: &sofaL.ID, Quantity: 1},
		},
		ShippingAddress: map[string]interface{}{"city": "Lima"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 240.00, order.Subtotal, 0.001)
	assert.InDelta(t, 43.20, order.Tax, 0.001)
	assert.InDelta(t, 283.20, order.Total, 0.001)
	assert.Equal(t, "Lima", order.BillingAddress["city"])

	var gotLamp models.Product
	require.NoError(t, db.First(&gotLamp, "id = ?", lamp.ID).Error)
	assert.Equal(t, 8, gotLamp.Stock)
	var gotVariant models.ProductVariant
	require.NoError(t, db.First(&gotVariant, "id = ?", sofaL.ID).Error)
	assert.Equal(t, 4, gotVariant.Stock)

	var logs []models.InventoryLog
	require.NoError(t, db.Where("reference_id = ?", order.ID).Order("quantity").Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, log := range logs {
		assert.Equal(t, models.MovementSale, log.Movement)
		assert.Equal(t, "order placed", log.Reason)
	}
	assert.Equal(t, lamp.ID, logs[0].ProductID)
	assert.Equal(t, -2, logs[0].Quantity)
	assert.Equal(t, sofa.ID, logs[1].ProductID)
	assert.Equal(t, -1, logs[1].Quantity)
	require.NotNil(t, logs[1].VariantID)
	assert.Equal(t, sofaL.ID, *logs[1].VariantID)

	require.Len(t, order.Payments, 1)
	assert.Equal(t, "manual", order.Payments[0].Gateway)
	assert.Equal(t, models.PaymentStatusPending, order.Payments[0].Status)
	assert.InDelta(t, order.Total, order.Payments[0].Amount, 0.001)
}

func TestOrderCreateRollsBackOnInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testConfig())
	userID := seedCustomer(t, db)

	lamp := seedSimpleProduct(t, db, "lamp-01", 100, 10)
	rug := seedSimpleProduct(t, db, "rug-01", 60, 1)

	_, err := svc.Create(userID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: lamp.ID, Quantity: 2},
			{ProductID: rug.ID, Quantity: 3},
		},
		ShippingAddress: map[string]interface{}{"city": "Lima"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// Nothing from the failed order may survive the rollback.
	for _, model := range []interface{}{
		&models.Order{}, &models.OrderItem{}, &models.Payment{}, &models.InventoryLog{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	var gotLamp models.Product
	require.NoError(t, db.First(&gotLamp, "id = ?", lamp.ID).Error)
	assert.Equal(t, 10, gotLamp.Stock)
}

func TestOrderCancelRestoresStockOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testConfig())
	userID := seedCustomer(t, db)

	lamp := seedSimpleProduct(t, db, "lamp-01", 100, 10)
	sofa, sofaL := seedVariableProduct(t, db, "sofa-01", 40, 5)

	order, err := svc.Create(userID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: lamp.ID, Quantity: 2},
			{ProductID: sofa.ID, VariantID: &sofaL.ID, Quantity: 1},
		},
		ShippingAddress: map[string]interface{}{"city": "Lima"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(order.ID, userID, false))

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	var gotLamp models.Product
	require.NoError(t, db.First(&gotLamp, "id = ?", lamp.ID).Error)
	assert.Equal(t, 10, gotLamp.Stock)
	var gotVariant models.ProductVariant
	require.NoError(t, db.First(&gotVariant, "id = ?", sofaL.ID).Error)
	assert.Equal(t, 5, gotVariant.Stock)

	var returns []models.InventoryLog
	require.NoError(t, db.Where("reference_id = ? AND movement = ?", order.ID, models.MovementReturn).
		Find(&returns).Error)
	require.Len(t, returns, 2)
	for _, log := range returns {
		assert.Equal(t, "order cancelled", log.Reason)
		assert.Positive(t, log.Quantity)
	}

	// Cancelling again is a no-op: no extra ledger rows, stock untouched.
	require.NoError(t, svc.Cancel(order.ID, userID, false))

	var total int64
	require.NoError(t, db.Model(&models.InventoryLog{}).Count(&total).Error)
	assert.EqualValues(t, 4, total)
	require.NoError(t, db.First(&gotLamp, "id = ?", lamp.ID).Error)
	assert.Equal(t, 10, gotLamp.Stock)
}
