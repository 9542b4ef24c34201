// internal/handlers/template.go
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type TemplateHandler struct {
	templateService  *services.TemplateService
	cartService      *services.CartService
	analyticsService *services.AnalyticsService
}

func NewTemplateHandler(
	templateService *services.TemplateService,
	cartService *services.CartService,
	analyticsService *services.AnalyticsService,
) *TemplateHandler {
	return &TemplateHandler{
		templateService:  templateService,
		cartService:      cartService,
		analyticsService: analyticsService,
	}
}

// GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.TemplateFilter{
		RoomType: c.Query("room_type"),
		Style:    c.Query("style"),
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured := featuredStr == "true"
		filter.Featured = &featured
	}

	templates, total, err := h.templateService.List(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(templates, total, params))
}

// GET /templates/:slug
func (h *TemplateHandler) GetBySlug(c *gin.Context) {
	template, err := h.templateService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	templateID := template.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.analyticsService.TrackTemplateView(ctx, templateID)
	}()

	utils.SuccessResponse(c, template)
}

// POST /templates/:slug/apply adds every required product in the template to
// the caller's cart.
func (h *TemplateHandler) Apply(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	template, err := h.templateService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	for _, item := range template.Products {
		if item.IsOptional {
			continue
		}
		if _, err := h.cartService.SetItem(c.Request.Context(), userID, services.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}); err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
	}

	templateID := template.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.analyticsService.TrackTemplateApplied(ctx, templateID)
	}()

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// POST /admin/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	template, err := h.templateService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyTemplateCreated),
		"template": template,
	})
}

// PUT /admin/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	template, err := h.templateService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, template)
}

// DELETE /admin/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
