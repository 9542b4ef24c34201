// internal/services/review_service.go
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

type ReviewService struct {
	db     *gorm.DB
	config *config.Config
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func NewReviewService(db *gorm.DB, config *config.Config) *ReviewService {
	return &ReviewService{db: db, config: config}
}

// Create adds a review; one review per user per product, later submissions
// overwrite the rating and comment.
func (s *ReviewService) Create(productID, userID uuid.UUID, req *CreateReviewRequest) (*models.ProductReview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal("failed to fetch product", err)
	}

	var review models.ProductReview
	err := s.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	switch {
	case err == nil:
		review.Rating = req.Rating
		review.Comment = req.Comment
		if err := s.db.Save(&review).Error; err != nil {
			return nil, apperrors.Internal("failed to update review", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.ProductReview{
			ProductID: productID,
			UserID:    userID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := s.db.Create(&review).Error; err != nil {
			return nil, apperrors.Internal("failed to create review", err)
		}
	default:
		return nil, apperrors.Internal("failed to fetch review", err)
	}

	return &review, nil
}

func (s *ReviewService) ListByProduct(productID uuid.UUID, params utils.PaginationParams) ([]models.ProductReview, int64, error) {
	query := s.db.Model(&models.ProductReview{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count reviews", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.ProductReview
	if err := query.Preload("User").Find(&reviews).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch reviews", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) Summary(productID uuid.UUID) (*RatingSummary, error) {
	var summary RatingSummary
	err := s.db.Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&summary).Error
	if err != nil {
		return nil, apperrors.Internal("failed to compute rating summary", err)
	}
	return &summary, nil
}

// Delete removes a review; owners can delete their own, admins any.
func (s *ReviewService) Delete(reviewID, requesterID uuid.UUID, isAdmin bool) error {
	query := s.db.Where("id = ?", reviewID)
	if !isAdmin {
		query = query.Where("user_id = ?", requesterID)
	}

	result := query.Delete(&models.ProductReview{})
	if result.Error != nil {
		return apperrors.Internal("failed to delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("review not found")
	}
	return nil
}
