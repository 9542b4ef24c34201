// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// POST /admin/inventory
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateInventoryLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if !req.Movement.IsAdjustment() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInventoryInvalidMovement), nil)
		return
	}

	log, err := h.inventoryService.RecordMovement(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInventoryRecorded),
		"log":     log,
	})
}

// GET /admin/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.InventoryFilter{
		Movement: c.Query("movement"),
	}
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			filter.ProductID = &productID
		}
	}
	if variantIDStr := c.Query("variant_id"); variantIDStr != "" {
		if variantID, err := uuid.Parse(variantIDStr); err == nil {
			filter.VariantID = &variantID
		}
	}

	logs, total, err := h.inventoryService.ListMovements(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
