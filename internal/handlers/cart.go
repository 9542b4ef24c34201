// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// PUT /cart/items
func (h *CartHandler) SetItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var item services.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	cart, err := h.cartService.SetItem(c.Request.Context(), userID, item)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cleared": true})
}

// POST /sessions
func (h *CartHandler) CreateSession(c *gin.Context) {
	var data services.SessionData
	if userID, ok := currentUserID(c); ok {
		data.UserID = userID.String()
	}

	sessionID, err := h.cartService.CreateSession(c.Request.Context(), data)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"session_id": sessionID})
}

// GET /sessions/:id
func (h *CartHandler) GetSession(c *gin.Context) {
	session, err := h.cartService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// DELETE /sessions/:id
func (h *CartHandler) DeleteSession(c *gin.Context) {
	if err := h.cartService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
