// internal/services/inventory_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/models"
)

func TestRecordMovementRejectsOrderMovements(t *testing.T) {
	svc := NewInventoryService(nil, testConfig())

	for _, movement := range []models.Movement{models.MovementSale, models.MovementReturn} {
		_, err := svc.RecordMovement(&CreateInventoryLogRequest{
			ProductID: uuid.New(),
			Quantity:  -1,
			Movement:  movement,
		})
		require.Error(t, err, string(movement))
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestRecordMovementRejectsZeroQuantity(t *testing.T) {
	svc := NewInventoryService(nil, testConfig())

	_, err := svc.RecordMovement(&CreateInventoryLogRequest{
		ProductID: uuid.New(),
		Quantity:  0,
		Movement:  models.MovementIn,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRecordMovementAdjustsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, testConfig())

	product := seedSimpleProduct(t, db, "lamp-01", 100, 10)

	log, err := svc.RecordMovement(&CreateInventoryLogRequest{
		ProductID: product.ID,
		Quantity:  -4,
		Movement:  models.MovementOut,
		Reason:    "damaged in warehouse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MovementOut, log.Movement)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 6, got.Stock)
}
