// internal/services/category_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

type CreateCategoryRequest struct {
	Name                 string                 `json:"name" binding:"required"`
	Slug                 string                 `json:"slug"`
	ParentID             *uuid.UUID             `json:"parent_id"`
	IsActive             *bool                  `json:"is_active"`
	AttributesNormalized map[string]interface{} `json:"attributes_normalized"`
}

type UpdateCategoryRequest struct {
	Name                 *string                `json:"name"`
	Slug                 *string                `json:"slug"`
	ParentID             *uuid.UUID             `json:"parent_id"`
	IsActive             *bool                  `json:"is_active"`
	AttributesNormalized map[string]interface{} `json:"attributes_normalized"`
}

func NewCategoryService(db *gorm.DB, config *config.Config) *CategoryService {
	return &CategoryService{db: db, config: config}
}

func (s *CategoryService) Create(req *CreateCategoryRequest) (*models.Category, error) {
	slug := req.Slug
	if slug == "" {
		generated, err := utils.GenerateUniqueSlug(s.db, "categories", req.Name)
		if err != nil {
			return nil, apperrors.Internal("failed to generate slug", err)
		}
		slug = generated
	} else {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check slug", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("slug is already in use")
		}
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := s.db.First(&parent, "id = ?", req.ParentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.NotFound("parent category not found")
			}
			return nil, apperrors.Internal("failed to load parent category", err)
		}
	}

	category := &models.Category{
		Name:                 req.Name,
		Slug:                 slug,
		ParentID:             req.ParentID,
		IsActive:             true,
		AttributesNormalized: models.JSONB(req.AttributesNormalized),
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Internal("failed to create category", err)
	}

	return category, nil
}

func (s *CategoryService) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").Preload("Parent").
		First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("category not found")
		}
		return nil, apperrors.Internal("failed to fetch category", err)
	}
	return &category, nil
}

func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").
		First(&category, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("category not found")
		}
		return nil, apperrors.Internal("failed to fetch category", err)
	}
	return &category, nil
}

func (s *CategoryService) List(params utils.PaginationParams, includeInactive bool) ([]models.Category, int64, error) {
	query := s.db.Model(&models.Category{})

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count categories", err)
	}

	allowedSortFields := []string{"created_at", "name", "slug"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var categories []models.Category
	if err := query.
		Select("categories.*, (SELECT COUNT(*) FROM product_categories pc WHERE pc.category_id = categories.id) AS product_count").
		Preload("Children").Find(&categories).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch categories", err)
	}

	return categories, total, nil
}

// Tree returns root categories with their children preloaded one level deep.
func (s *CategoryService) Tree() ([]models.Category, error) {
	var roots []models.Category
	if err := s.db.Where("parent_id IS NULL AND is_active = ?", true).
		Preload("Children", "is_active = ?", true).
		Order("name asc").
		Find(&roots).Error; err != nil {
		return nil, apperrors.Internal("failed to fetch category tree", err)
	}
	return roots, nil
}

func (s *CategoryService) Update(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("category not found")
		}
		return nil, apperrors.Internal("failed to fetch category", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil && *req.Slug != category.Slug {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("slug = ? AND id <> ?", *req.Slug, id).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check slug", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("slug is already in use")
		}
		updates["slug"] = *req.Slug
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, apperrors.Validation("category cannot be its own parent")
		}
		var parent models.Category
		if err := s.db.First(&parent, "id = ?", req.ParentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.NotFound("parent category not found")
			}
			return nil, apperrors.Internal("failed to load parent category", err)
		}
		updates["parent_id"] = *req.ParentID
	}
	if req.IsActive != nil {
		// A category cannot be deactivated while it still has active children.
		if !*req.IsActive {
			var activeChildren int64
			if err := s.db.Model(&models.Category{}).
				Where("parent_id = ? AND is_active = ?", id, true).
				Count(&activeChildren).Error; err != nil {
				return nil, apperrors.Internal("failed to count subcategories", err)
			}
			if activeChildren > 0 {
				return nil, apperrors.Conflict("category has active subcategories")
			}
		}
		updates["is_active"] = *req.IsActive
	}
	if req.AttributesNormalized != nil {
		updates["attributes_normalized"] = models.JSONB(req.AttributesNormalized)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update category", err)
		}
	}

	return s.GetByID(id)
}

// Delete soft-deletes a category. Categories with live children or attached
// products are refused so the catalog never dangles.
func (s *CategoryService) Delete(id uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("category not found")
		}
		return apperrors.Internal("failed to fetch category", err)
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return apperrors.Internal("failed to count subcategories", err)
	}
	if childCount > 0 {
		return apperrors.Conflict("category has active subcategories")
	}

	var productCount int64
	if err := s.db.Table("product_categories").
		Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return apperrors.Internal("failed to count category products", err)
	}
	if productCount > 0 {
		return apperrors.Conflict("category is associated with one or more products")
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return apperrors.Internal("failed to delete category", err)
	}

	return nil
}
