// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

const productCacheTTL = time.Hour

type ProductService struct {
	db     *gorm.DB
	config *config.Config
	rdb    *redis.Client
}

type CreateProductRequest struct {
	SKU         string                  `json:"sku" binding:"required"`
	Slug        string                  `json:"slug"`
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Type        models.ProductType      `json:"type" binding:"required"`
	BasePrice   *float64                `json:"base_price"`
	Stock       int                     `json:"stock"`
	MinStock    *int                    `json:"min_stock"`
	Tags        []string                `json:"tags"`
	CategoryIDs []uuid.UUID             `json:"category_ids"`
	Attributes  []ProductAttributeInput `json:"attributes"`
	Variants    []CreateVariantRequest  `json:"variants"`
	Images      []ProductImageInput     `json:"images"`
}

type ProductAttributeInput struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type ProductImageInput struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateVariantRequest struct {
	SKUSuffix  string                 `json:"sku_suffix" binding:"required"`
	Price      float64                `json:"price" binding:"required"`
	Stock      int                    `json:"stock"`
	MinStock   *int                   `json:"min_stock"`
	Attributes map[string]interface{} `json:"attributes"`
	Images     []ProductImageInput    `json:"images"`
}

type UpdateProductRequest struct {
	Slug        *string     `json:"slug"`
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	BasePrice   *float64    `json:"base_price"`
	MinStock    *int        `json:"min_stock"`
	IsActive    *bool       `json:"is_active"`
	Tags        []string    `json:"tags"`
	CategoryIDs []uuid.UUID `json:"category_ids"`

	// Attributes are merged by name; existing names are updated, new names
	// appended.
	Attributes []ProductAttributeInput `json:"attributes"`
}

type UpdateVariantRequest struct {
	Price      *float64               `json:"price"`
	MinStock   *int                   `json:"min_stock"`
	IsActive   *bool                  `json:"is_active"`
	Attributes map[string]interface{} `json:"attributes"`
}

type ProductFilter struct {
	CategoryID      *uuid.UUID
	Type            string
	Tag             string
	MinPrice        *float64
	MaxPrice        *float64
	IncludeInactive bool
}

func NewProductService(db *gorm.DB, config *config.Config, rdb *redis.Client) *ProductService {
	return &ProductService{db: db, config: config, rdb: rdb}
}

func productCacheKey(slug string) string {
	return "product:slug:" + slug
}

// invalidateCache drops the cached catalog entry for a product. Best effort;
// a stale entry only lives until its TTL.
func (s *ProductService) invalidateCache(productID uuid.UUID) {
	if s.rdb == nil {
		return
	}

	var slug string
	if err := s.db.Unscoped().Model(&models.Product{}).
		Where("id = ?", productID).
		Pluck("slug", &slug).Error; err != nil || slug == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.Del(ctx, productCacheKey(slug)).Err(); err != nil {
		logrus.WithError(err).Warn("failed to invalidate product cache")
	}
}

func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	if req.Type == models.ProductTypeSimple && req.BasePrice == nil {
		return nil, apperrors.Validation("base price is required for simple products")
	}
	if req.Type == models.ProductTypeVariable && len(req.Variants) == 0 {
		return nil, apperrors.Validation("variable products require at least one variant")
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("sku = ?", req.SKU).Count(&count).Error; err != nil {
		return nil, apperrors.Internal("failed to check SKU", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict("SKU is already in use")
	}

	slug := req.Slug
	if slug == "" {
		generated, err := utils.GenerateUniqueSlug(s.db, "products", req.Name)
		if err != nil {
			return nil, apperrors.Internal("failed to generate slug", err)
		}
		slug = generated
	} else {
		if err := s.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check slug", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("slug is already in use")
		}
	}

	var categories []models.Category
	if len(req.CategoryIDs) > 0 {
		if err := s.db.Find(&categories, "id IN ?", req.CategoryIDs).Error; err != nil {
			return nil, apperrors.Internal("failed to load categories", err)
		}
		if len(categories) != len(req.CategoryIDs) {
			return nil, apperrors.NotFound("category not found")
		}
	}

	product := &models.Product{
		SKU:         req.SKU,
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		BasePrice:   req.BasePrice,
		Stock:       req.Stock,
		MinStock:    5,
		IsActive:    true,
		Tags:        pq.StringArray(req.Tags),
		Categories:  categories,
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}

	for _, attr := range req.Attributes {
		product.Attributes = append(product.Attributes, models.ProductAttribute{
			Name:  attr.Name,
			Value: attr.Value,
		})
	}
	for _, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}
	for _, v := range req.Variants {
		variant := models.ProductVariant{
			SKUSuffix:  v.SKUSuffix,
			Price:      v.Price,
			Stock:      v.Stock,
			MinStock:   5,
			IsActive:   true,
			Attributes: models.JSONB(v.Attributes),
		}
		if v.MinStock != nil {
			variant.MinStock = *v.MinStock
		}
		for _, img := range v.Images {
			variant.Images = append(variant.Images, models.ProductVariantImage{
				URL:       img.URL,
				AltText:   img.AltText,
				IsPrimary: img.IsPrimary,
			})
		}
		product.Variants = append(product.Variants, variant)
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Internal("failed to create product", err)
	}

	return s.GetByID(product.ID, true)
}

func (s *ProductService) GetByID(id uuid.UUID, includeInactive bool) (*models.Product, error) {
	query := s.db.Preload("Categories").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Variants.Images").
		Preload("Images").
		Preload("Attributes")

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	return &product, nil
}

func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productCacheKey(slug)).Bytes(); err == nil {
			var product models.Product
			if err := json.Unmarshal(cached, &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := s.db.Preload("Categories").
		Preload("Variants", "is_active = ?", true).
		Preload("Variants.Images").
		Preload("Images").
		Preload("Attributes").
		Where("is_active = ?", true).
		First(&product, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(&product); err == nil {
			if err := s.rdb.Set(ctx, productCacheKey(slug), payload, productCacheTTL).Err(); err != nil {
				logrus.WithError(err).Warn("failed to cache product")
			}
		}
	}

	return &product, nil
}

func (s *ProductService) List(filter ProductFilter, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("products.type = ?", filter.Type)
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(products.tags)", filter.Tag)
	}
	if filter.CategoryID != nil {
		query = query.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.base_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.base_price <= ?", filter.MaxPrice)
	}
	if params.Search != "" {
		query = query.Where(
			"to_tsvector('english', products.name || ' ' || coalesce(products.description, '')) @@ plainto_tsquery('english', ?)",
			params.Search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count products", err)
	}

	allowedSortFields := []string{"created_at", "name", "base_price", "stock"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.
		Select("products.*, (SELECT COALESCE(AVG(r.rating), 0) FROM product_reviews r WHERE r.product_id = products.id) AS average_rating").
		Preload("Categories").Preload("Images").
		Preload("Variants", "is_active = ?", true).
		Find(&products).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch products", err)
	}

	return products, total, nil
}

// ListDeleted returns soft-deleted products so they can be restored.
func (s *ProductService) ListDeleted(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Unscoped().Model(&models.Product{}).Where("deleted_at IS NOT NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count deleted products", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name"})
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch deleted products", err)
	}

	return products, total, nil
}

// LowStock returns products and variants at or below their minimum stock
// threshold.
func (s *ProductService) LowStock() ([]models.Product, []models.ProductVariant, error) {
	var products []models.Product
	if err := s.db.Where("type = ? AND stock <= min_stock AND is_active = ?",
		models.ProductTypeSimple, true).Find(&products).Error; err != nil {
		return nil, nil, apperrors.Internal("failed to fetch low-stock products", err)
	}

	var variants []models.ProductVariant
	if err := s.db.Preload("Product").
		Where("stock <= min_stock AND is_active = ?", true).
		Find(&variants).Error; err != nil {
		return nil, nil, apperrors.Internal("failed to fetch low-stock variants", err)
	}

	return products, variants, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}

	updates := map[string]interface{}{}
	if req.Slug != nil && *req.Slug != product.Slug {
		var count int64
		if err := s.db.Model(&models.Product{}).
			Where("slug = ? AND id <> ?", *req.Slug, id).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check slug", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("slug is already in use")
		}
		updates["slug"] = *req.Slug
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return apperrors.Internal("failed to update product", err)
			}
		}

		if req.CategoryIDs != nil {
			var categories []models.Category
			if len(req.CategoryIDs) > 0 {
				if err := tx.Find(&categories, "id IN ?", req.CategoryIDs).Error; err != nil {
					return apperrors.Internal("failed to load categories", err)
				}
				if len(categories) != len(req.CategoryIDs) {
					return apperrors.NotFound("category not found")
				}
			}
			if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
				return apperrors.Internal("failed to update product categories", err)
			}
		}

		for _, attr := range req.Attributes {
			result := tx.Model(&models.ProductAttribute{}).
				Where("product_id = ? AND name = ?", id, attr.Name).
				Update("value", attr.Value)
			if result.Error != nil {
				return apperrors.Internal("failed to update attribute", result.Error)
			}
			if result.RowsAffected == 0 {
				if err := tx.Create(&models.ProductAttribute{
					ProductID: id,
					Name:      attr.Name,
					Value:     attr.Value,
				}).Error; err != nil {
					return apperrors.Internal("failed to create attribute", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(id)
	return s.GetByID(id, true)
}

// Delete soft-deletes the product so existing order items keep a valid
// reference. The slug is freed for reuse because uniqueness is only enforced
// among live rows.
func (s *ProductService) Delete(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("product not found")
		}
		return apperrors.Internal("failed to fetch product", err)
	}

	s.invalidateCache(id)
	if err := s.db.Delete(&product).Error; err != nil {
		return apperrors.Internal("failed to delete product", err)
	}
	return nil
}

// Restore undeletes a soft-deleted product. If its slug was reclaimed while
// the product was deleted, a fresh unique slug is assigned.
func (s *ProductService) Restore(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Unscoped().First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	if !product.DeletedAt.Valid {
		return nil, apperrors.Conflict("product is not deleted")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).
			Where("slug = ? AND id <> ?", product.Slug, id).Count(&count).Error; err != nil {
			return apperrors.Internal("failed to check slug", err)
		}
		updates := map[string]interface{}{"deleted_at": nil}
		if count > 0 {
			slug, err := utils.GenerateUniqueSlug(tx, "products", product.Name)
			if err != nil {
				return apperrors.Internal("failed to generate slug", err)
			}
			updates["slug"] = slug
		}
		if err := tx.Unscoped().Model(&product).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to restore product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(id)
	return s.GetByID(id, true)
}

func (s *ProductService) AddVariant(productID uuid.UUID, req *CreateVariantRequest) (*models.ProductVariant, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	if product.Type != models.ProductTypeVariable {
		return nil, apperrors.Validation("variants can only be added to variable products")
	}

	variant := &models.ProductVariant{
		ProductID:  productID,
		SKUSuffix:  req.SKUSuffix,
		Price:      req.Price,
		Stock:      req.Stock,
		MinStock:   5,
		IsActive:   true,
		Attributes: models.JSONB(req.Attributes),
	}
	if req.MinStock != nil {
		variant.MinStock = *req.MinStock
	}
	for _, img := range req.Images {
		variant.Images = append(variant.Images, models.ProductVariantImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}

	if err := s.db.Create(variant).Error; err != nil {
		return nil, apperrors.Internal("failed to create variant", err)
	}

	s.invalidateCache(productID)
	return variant, nil
}

func (s *ProductService) UpdateVariant(productID, variantID uuid.UUID, req *UpdateVariantRequest) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := s.db.First(&variant, "id = ? AND product_id = ?", variantID, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("variant not found")
		}
		return nil, apperrors.Internal("failed to fetch variant", err)
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Attributes != nil {
		updates["attributes"] = models.JSONB(req.Attributes)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&variant).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update variant", err)
		}
		s.invalidateCache(productID)
	}

	return &variant, nil
}

func (s *ProductService) DeleteVariant(productID, variantID uuid.UUID) error {
	var variant models.ProductVariant
	if err := s.db.First(&variant, "id = ? AND product_id = ?", variantID, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("variant not found")
		}
		return apperrors.Internal("failed to fetch variant", err)
	}

	if err := s.db.Delete(&variant).Error; err != nil {
		return apperrors.Internal("failed to delete variant", err)
	}

	s.invalidateCache(productID)
	return nil
}

func (s *ProductService) AddImage(productID uuid.UUID, req *ProductImageInput) (*models.ProductImage, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}

	image := &models.ProductImage{
		ProductID: productID,
		URL:       req.URL,
		AltText:   req.AltText,
		IsPrimary: req.IsPrimary,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary {
			if err := tx.Model(&models.ProductImage{}).
				Where("product_id = ?", productID).
				Update("is_primary", false).Error; err != nil {
				return apperrors.Internal("failed to clear primary image", err)
			}
		}
		if err := tx.Create(image).Error; err != nil {
			return apperrors.Internal("failed to create image", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(productID)
	return image, nil
}

func (s *ProductService) DeleteImage(productID, imageID uuid.UUID) error {
	result := s.db.Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&models.ProductImage{})
	if result.Error != nil {
		return apperrors.Internal("failed to delete image", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("image not found")
	}

	s.invalidateCache(productID)
	return nil
}
