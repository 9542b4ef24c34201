// internal/services/inventory_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type InventoryService struct {
	db     *gorm.DB
	config *config.Config
}

type CreateInventoryLogRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	VariantID   *uuid.UUID      `json:"variant_id"`
	Quantity    int             `json:"quantity" binding:"required"`
	Movement    models.Movement `json:"movement" binding:"required"`
	Reason      string          `json:"reason"`
	ReferenceID *uuid.UUID      `json:"reference_id"`
}

type InventoryFilter struct {
	ProductID *uuid.UUID
	VariantID *uuid.UUID
	Movement  string
}

func NewInventoryService(db *gorm.DB, config *config.Config) *InventoryService {
	return &InventoryService{db: db, config: config}
}

// RecordMovement appends an adjustment ledger entry and applies its signed
// quantity to the product or variant stock in the same transaction. Sale and
// return entries are written by the order workflows, which adjust stock
// themselves, and are rejected here.
func (s *InventoryService) RecordMovement(req *CreateInventoryLogRequest) (*models.InventoryLog, error) {
	if req.Quantity == 0 {
		return nil, apperrors.Validation("quantity must be non-zero")
	}
	// Sale and return entries belong to the order workflows; recording them
	// here would leave the ledger out of sync with stock.
	if !req.Movement.IsAdjustment() {
		return nil, apperrors.Validation("only in, out and adjustment movements can be recorded directly")
	}

	log := &models.InventoryLog{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		Movement:    req.Movement,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("product not found")
			}
			return apperrors.Internal("failed to load product", err)
		}

		if req.VariantID != nil {
			var variant models.ProductVariant
			if err := tx.First(&variant, "id = ? AND product_id = ?", req.VariantID, req.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound("variant not found")
				}
				return apperrors.Internal("failed to load variant", err)
			}
		}

		if err := applyStockDelta(tx, req.ProductID, req.VariantID, req.Quantity); err != nil {
			return err
		}

		if err := tx.Create(log).Error; err != nil {
			return apperrors.Internal("failed to record inventory movement", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return log, nil
}

func (s *InventoryService) ListMovements(filter InventoryFilter, params utils.PaginationParams) ([]models.InventoryLog, int64, error) {
	query := s.db.Model(&models.InventoryLog{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", filter.VariantID)
	}
	if filter.Movement != "" {
		query = query.Where("movement = ?", filter.Movement)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count inventory logs", err)
	}

	allowedSortFields := []string{"created_at", "quantity", "movement"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.InventoryLog
	if err := query.Preload("Product").Preload("Variant").Find(&logs).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch inventory logs", err)
	}

	return logs, total, nil
}

// applyStockDelta moves stock on the product or, when variantID is set, the
// variant. The row is locked first so concurrent adjustments cannot drive
// stock negative: a negative delta that exceeds current stock fails.
func applyStockDelta(tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, delta int) error {
	if variantID != nil {
		var variant models.ProductVariant
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&variant, "id = ?", variantID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("variant not found")
			}
			return apperrors.Internal("failed to lock variant", err)
		}
		if variant.Stock+delta < 0 {
			return apperrors.Conflict("insufficient stock")
		}
		if err := tx.Model(&models.ProductVariant{}).
			Where("id = ?", variantID).
			Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
			return apperrors.Internal("failed to update variant stock", err)
		}
		return nil
	}

	var product models.Product
	if err := tx.Set("gorm:query_option", "FOR UPDATE").
		First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("product not found")
		}
		return apperrors.Internal("failed to lock product", err)
	}
	if product.Stock+delta < 0 {
		return apperrors.Conflict("insufficient stock")
	}
	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
		return apperrors.Internal("failed to update product stock", err)
	}
	return nil
}
