// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	includeInactive := isAdmin(c) && c.Query("include_inactive") == "true"

	categories, total, err := h.categoryService.List(params, includeInactive)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(categories, total, params))
}

// GET /categories/tree
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.categoryService.Tree()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, tree)
}

// GET /categories/:slug
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, category)
}

// POST /admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
		"category": category,
	})
}

// PUT /admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
