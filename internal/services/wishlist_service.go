// internal/services/wishlist_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
)

type WishlistService struct {
	db     *gorm.DB
	config *config.Config
}

func NewWishlistService(db *gorm.DB, config *config.Config) *WishlistService {
	return &WishlistService{db: db, config: config}
}

func (s *WishlistService) List(userID uuid.UUID) ([]models.Product, error) {
	var user models.User
	if err := s.db.Preload("Wishlist", "is_active = ?", true).
		Preload("Wishlist.Images").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to fetch wishlist", err)
	}
	return user.Wishlist, nil
}

// Add puts a product on the wishlist; adding it twice is a no-op.
func (s *WishlistService) Add(userID, productID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product not found")
		}
		return apperrors.Internal("failed to fetch product", err)
	}

	var count int64
	if err := s.db.Table("user_wishlist").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return apperrors.Internal("failed to check wishlist", err)
	}
	if count > 0 {
		return nil
	}

	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	if err := s.db.Model(&user).Association("Wishlist").Append(&product); err != nil {
		return apperrors.Internal("failed to add to wishlist", err)
	}
	return nil
}

func (s *WishlistService) Remove(userID, productID uuid.UUID) error {
	var count int64
	if err := s.db.Table("user_wishlist").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return apperrors.Internal("failed to check wishlist", err)
	}
	if count == 0 {
		return apperrors.NotFound("product not in wishlist")
	}

	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	product := models.Product{BaseModel: models.BaseModel{ID: productID}}
	if err := s.db.Model(&user).Association("Wishlist").Delete(&product); err != nil {
		return apperrors.Internal("failed to remove from wishlist", err)
	}
	return nil
}
