// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService  *services.ReviewService
	productService *services.ProductService
}

func NewReviewHandler(reviewService *services.ReviewService, productService *services.ProductService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:  reviewService,
		productService: productService,
	}
}

// POST /products/:slug/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	product, err := h.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	productID := product.ID

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	review, err := h.reviewService.Create(productID, userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReviewCreated),
		"review":  review,
	})
}

// GET /products/:slug/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	productID := product.ID

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListByProduct(productID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	summary, err := h.reviewService.Summary(productID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(reviews, total, params)
	utils.SuccessResponseWithMeta(c, result.Data, gin.H{
		"page":        result.Page,
		"limit":       result.Limit,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"rating":      summary,
	})
}

// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(reviewID, userID, isAdmin(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
