// internal/handlers/product.go
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type ProductHandler struct {
	productService   *services.ProductService
	storageService   *services.StorageService
	cartService      *services.CartService
	analyticsService *services.AnalyticsService
}

func NewProductHandler(
	productService *services.ProductService,
	storageService *services.StorageService,
	cartService *services.CartService,
	analyticsService *services.AnalyticsService,
) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		storageService:   storageService,
		cartService:      cartService,
		analyticsService: analyticsService,
	}
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.ProductFilter{
		Type:            c.Query("type"),
		Tag:             c.Query("tag"),
		IncludeInactive: isAdmin(c) && c.Query("include_inactive") == "true",
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			filter.CategoryID = &categoryID
		}
	}
	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			filter.MinPrice = &priceMin
		}
	}
	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			filter.MaxPrice = &priceMax
		}
	}

	products, total, err := h.productService.List(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	// View tracking is best effort; it must not block or outlive-cancel with
	// the request, so it runs on a fresh context.
	userID, _ := currentUserID(c)
	productID := product.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if userID != uuid.Nil {
			_ = h.cartService.RecordView(ctx, userID, productID)
		}
		_ = h.analyticsService.TrackProductView(ctx, productID, userID)
	}()

	utils.SuccessResponse(c, product)
}

// GET /products/recently-viewed
func (h *ProductHandler) RecentlyViewed(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	ids, err := h.cartService.RecentViews(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	products := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		product, err := h.productService.GetByID(id, false)
		if err != nil {
			continue // deleted or deactivated since viewing
		}
		products = append(products, product)
	}

	utils.SuccessResponse(c, products)
}

// POST /admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /admin/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(id, true)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PUT /admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /admin/products/:id/restore
func (h *ProductHandler) Restore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Restore(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductRestored),
		"product": product,
	})
}

// GET /admin/products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, variants, err := h.productService.LowStock()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"variants": variants,
	})
}

// GET /admin/products/deleted
func (h *ProductHandler) ListDeleted(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.ListDeleted(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// POST /admin/products/:id/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	variant, err := h.productService.AddVariant(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, variant)
}

// PUT /admin/products/:id/variants/:variantId
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	var req services.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	variant, err := h.productService.UpdateVariant(id, variantID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, variant)
}

// DELETE /admin/products/:id/variants/:variantId
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	if err := h.productService.DeleteVariant(id, variantID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /admin/products/:id/images
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "file"), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("products")
	result, err := h.storageService.UploadImage(file, header, options)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	image, err := h.productService.AddImage(id, &services.ProductImageInput{
		URL:       result.URL,
		AltText:   c.PostForm("alt_text"),
		IsPrimary: c.PostForm("is_primary") == "true",
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"image":  image,
		"upload": result,
	})
}

// DELETE /admin/products/:id/images/:imageId
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	if err := h.productService.DeleteImage(id, imageID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
