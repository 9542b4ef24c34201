// internal/services/template_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type TemplateService struct {
	db     *gorm.DB
	config *config.Config
}

type TemplateProductInput struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	Quantity   int       `json:"quantity"`
	IsOptional bool      `json:"is_optional"`
	Notes      string    `json:"notes"`
}

type CreateTemplateRequest struct {
	Name          string                 `json:"name" binding:"required"`
	Slug          string                 `json:"slug"`
	Description   string                 `json:"description"`
	RoomType      string                 `json:"room_type" binding:"required"`
	Style         string                 `json:"style"`
	Discount      float64                `json:"discount"`
	CoverImageURL string                 `json:"cover_image_url"`
	Featured      bool                   `json:"featured"`
	Products      []TemplateProductInput `json:"products" binding:"required,min=1"`
}

type UpdateTemplateRequest struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	RoomType      *string                `json:"room_type"`
	Style         *string                `json:"style"`
	Discount      *float64               `json:"discount"`
	CoverImageURL *string                `json:"cover_image_url"`
	Featured      *bool                  `json:"featured"`
	IsActive      *bool                  `json:"is_active"`
	Products      []TemplateProductInput `json:"products"`
}

type TemplateFilter struct {
	RoomType string
	Style    string
	Featured *bool
}

func NewTemplateService(db *gorm.DB, config *config.Config) *TemplateService {
	return &TemplateService{db: db, config: config}
}

func (s *TemplateService) Create(req *CreateTemplateRequest) (*models.DesignTemplate, error) {
	if req.Discount < 0 || req.Discount >= 1 {
		return nil, apperrors.Validation("discount must be in [0, 1)")
	}

	slug := req.Slug
	if slug == "" {
		generated, err := utils.GenerateUniqueSlug(s.db, "design_templates", req.Name)
		if err != nil {
			return nil, apperrors.Internal("failed to generate slug", err)
		}
		slug = generated
	} else {
		var count int64
		if err := s.db.Model(&models.DesignTemplate{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check slug", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("slug is already in use")
		}
	}

	template := &models.DesignTemplate{
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		RoomType:      req.RoomType,
		Style:         req.Style,
		Discount:      req.Discount,
		CoverImageURL: req.CoverImageURL,
		Featured:      req.Featured,
		IsActive:      true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		items, total, err := s.buildItems(tx, req.Products, req.Discount)
		if err != nil {
			return err
		}
		template.TotalPrice = total
		template.Products = items

		if err := tx.Create(template).Error; err != nil {
			return apperrors.Internal("failed to create template", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(template.ID)
}

// buildItems resolves each referenced product and prices the bundle. The
// discount applies to required items only. Variable products are priced at
// their cheapest active variant.
func (s *TemplateService) buildItems(tx *gorm.DB, inputs []TemplateProductInput, discount float64) ([]models.TemplateProduct, float64, error) {
	var items []models.TemplateProduct
	var total float64

	for _, input := range inputs {
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		var product models.Product
		if err := tx.First(&product, "id = ? AND is_active = ?", input.ProductID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperrors.NotFound("product not found")
			}
			return nil, 0, apperrors.Internal("failed to fetch product", err)
		}

		unitPrice, err := s.unitPrice(tx, &product)
		if err != nil {
			return nil, 0, err
		}

		if !input.IsOptional {
			total += unitPrice * float64(quantity)
		}

		items = append(items, models.TemplateProduct{
			ProductID:  input.ProductID,
			Quantity:   quantity,
			IsOptional: input.IsOptional,
			Notes:      input.Notes,
		})
	}

	return items, utils.Round2(total * (1 - discount)), nil
}

func (s *TemplateService) unitPrice(tx *gorm.DB, product *models.Product) (float64, error) {
	if product.Type == models.ProductTypeVariable {
		var minPrice float64
		err := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND is_active = ?", product.ID, true).
			Select("MIN(price)").
			Row().Scan(&minPrice)
		if err != nil {
			return 0, apperrors.Validation("template products must have an active variant")
		}
		return minPrice, nil
	}

	if product.BasePrice == nil {
		return 0, apperrors.Validation("template products must have a base price")
	}
	return *product.BasePrice, nil
}

func (s *TemplateService) GetByID(id uuid.UUID) (*models.DesignTemplate, error) {
	var template models.DesignTemplate
	if err := s.db.Preload("Products").Preload("Products.Product").
		Preload("Products.Product.Images").
		First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("design template not found")
		}
		return nil, apperrors.Internal("failed to fetch template", err)
	}
	return &template, nil
}

func (s *TemplateService) GetBySlug(slug string) (*models.DesignTemplate, error) {
	var template models.DesignTemplate
	if err := s.db.Preload("Products").Preload("Products.Product").
		Preload("Products.Product.Images").
		Where("is_active = ?", true).
		First(&template, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("design template not found")
		}
		return nil, apperrors.Internal("failed to fetch template", err)
	}
	return &template, nil
}

func (s *TemplateService) List(filter TemplateFilter, params utils.PaginationParams) ([]models.DesignTemplate, int64, error) {
	query := s.db.Model(&models.DesignTemplate{}).Where("is_active = ?", true)

	if filter.RoomType != "" {
		query = query.Where("room_type = ?", filter.RoomType)
	}
	if filter.Style != "" {
		query = query.Where("style = ?", filter.Style)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count templates", err)
	}

	allowedSortFields := []string{"created_at", "name", "total_price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var templates []models.DesignTemplate
	if err := query.Preload("Products").Find(&templates).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch templates", err)
	}

	return templates, total, nil
}

func (s *TemplateService) Update(id uuid.UUID, req *UpdateTemplateRequest) (*models.DesignTemplate, error) {
	var template models.DesignTemplate
	if err := s.db.First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("design template not found")
		}
		return nil, apperrors.Internal("failed to fetch template", err)
	}

	discount := template.Discount
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount >= 1 {
			return nil, apperrors.Validation("discount must be in [0, 1)")
		}
		discount = *req.Discount
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.RoomType != nil {
		updates["room_type"] = *req.RoomType
	}
	if req.Style != nil {
		updates["style"] = *req.Style
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Products != nil {
			items, total, err := s.buildItems(tx, req.Products, discount)
			if err != nil {
				return err
			}
			if err := tx.Where("template_id = ?", id).Delete(&models.TemplateProduct{}).Error; err != nil {
				return apperrors.Internal("failed to replace template products", err)
			}
			for i := range items {
				items[i].TemplateID = id
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return apperrors.Internal("failed to replace template products", err)
				}
			}
			updates["total_price"] = total
		} else if req.Discount != nil {
			// Reprice with the existing items
			var existing []models.TemplateProduct
			if err := tx.Where("template_id = ?", id).Find(&existing).Error; err != nil {
				return apperrors.Internal("failed to fetch template products", err)
			}
			inputs := make([]TemplateProductInput, 0, len(existing))
			for _, item := range existing {
				inputs = append(inputs, TemplateProductInput{
					ProductID:  item.ProductID,
					Quantity:   item.Quantity,
					IsOptional: item.IsOptional,
				})
			}
			_, total, err := s.buildItems(tx, inputs, discount)
			if err != nil {
				return err
			}
			updates["total_price"] = total
		}

		if len(updates) > 0 {
			if err := tx.Model(&template).Updates(updates).Error; err != nil {
				return apperrors.Internal("failed to update template", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

func (s *TemplateService) Delete(id uuid.UUID) error {
	var template models.DesignTemplate
	if err := s.db.First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("design template not found")
		}
		return apperrors.Internal("failed to fetch template", err)
	}

	if err := s.db.Delete(&template).Error; err != nil {
		return apperrors.Internal("failed to delete template", err)
	}
	return nil
}
