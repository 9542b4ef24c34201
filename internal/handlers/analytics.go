// internal/handlers/analytics.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /admin/analytics/products/:id
func (h *AnalyticsHandler) ProductStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.analyticsService.ProductStats(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/analytics/users/:id
func (h *AnalyticsHandler) UserStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.analyticsService.UserStats(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/analytics/templates/:id
func (h *AnalyticsHandler) TemplateStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.analyticsService.TemplateStats(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/analytics/top-products
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	stats, err := h.analyticsService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
