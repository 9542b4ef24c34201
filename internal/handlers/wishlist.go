// internal/handlers/wishlist.go
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type WishlistHandler struct {
	wishlistService  *services.WishlistService
	analyticsService *services.AnalyticsService
}

func NewWishlistHandler(
	wishlistService *services.WishlistService,
	analyticsService *services.AnalyticsService,
) *WishlistHandler {
	return &WishlistHandler{
		wishlistService:  wishlistService,
		analyticsService: analyticsService,
	}
}

// GET /wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	products, err := h.wishlistService.List(userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// POST /wishlist/:productId
func (h *WishlistHandler) Add(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.wishlistService.Add(userID, productID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.analyticsService.TrackWishlistAdd(ctx, productID)
	}()

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWishlistAdded),
	})
}

// DELETE /wishlist/:productId
func (h *WishlistHandler) Remove(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(userID, productID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWishlistRemoved),
	})
}
