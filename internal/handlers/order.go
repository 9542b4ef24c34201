// internal/handlers/order.go
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type OrderHandler struct {
	orderService     *services.OrderService
	cartService      *services.CartService
	analyticsService *services.AnalyticsService
}

func NewOrderHandler(
	orderService *services.OrderService,
	cartService *services.CartService,
	analyticsService *services.AnalyticsService,
) *OrderHandler {
	return &OrderHandler{
		orderService:     orderService,
		cartService:      cartService,
		analyticsService: analyticsService,
	}
}

// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.Create(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	// A successful checkout consumes the cart. The order already exists, so
	// a failed cart delete is not worth failing the request over.
	_ = h.cartService.ClearCart(c.Request.Context(), userID)

	items := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID != nil {
			items[*item.ProductID] += item.Quantity
		}
	}
	total := order.Total
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.analyticsService.TrackOrderPlaced(ctx, userID, total, items)
	}()

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	params := utils.GetPaginationParams(c)
	filter := services.OrderFilter{
		UserID: &userID,
		Status: c.Query("status"),
	}

	orders, total, err := h.orderService.List(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(id, userID, isAdmin(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Cancel(id, userID, isAdmin(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCancelled),
	})
}

// GET /admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.OrderFilter{
		Status: c.Query("status"),
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := uuid.Parse(userIDStr); err == nil {
			filter.UserID = &userID
		}
	}

	orders, total, err := h.orderService.List(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}
