// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decorahub/ecommerce-backend/internal/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, isValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusShipped},
	}
	for _, tc := range denied {
		assert.False(t, isValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	assert.Empty(t, orderStatusTransitions[models.OrderStatusDelivered])
	assert.Empty(t, orderStatusTransitions[models.OrderStatusCancelled])
}
