// internal/services/user_service.go
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

type UserService struct {
	db     *gorm.DB
	config *config.Config
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

type AssignRoleRequest struct {
	Role        models.Role            `json:"role" binding:"required"`
	Permissions map[string]interface{} `json:"permissions"`
}

func NewUserService(db *gorm.DB, config *config.Config) *UserService {
	return &UserService{db: db, config: config}
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to fetch user", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(id uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update user", err)
		}
	}

	return s.GetByID(id)
}

func (s *UserService) List(role models.Role, params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if role != "" {
		query = query.Joins("JOIN user_roles ur ON ur.user_id = users.id").
			Where("ur.role = ?", role)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count users", err)
	}

	allowedSortFields := []string{"created_at", "email", "full_name", "last_login_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Preload("Roles").Find(&users).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch users", err)
	}

	return users, total, nil
}

func (s *UserService) SetActive(id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Internal("failed to update user", err)
	}
	user.IsActive = active
	return user, nil
}

func (s *UserService) AssignRole(id uuid.UUID, req *AssignRoleRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if user.HasRole(req.Role) {
		return user, nil
	}

	role := models.UserRole{
		UserID:      user.ID,
		Role:        req.Role,
		Permissions: models.JSONB(req.Permissions),
	}
	if err := s.db.Create(&role).Error; err != nil {
		return nil, apperrors.Internal("failed to assign role", err)
	}

	return s.GetByID(id)
}

func (s *UserService) RemoveRole(id uuid.UUID, role models.Role) error {
	result := s.db.Where("user_id = ? AND role = ?", id, role).Delete(&models.UserRole{})
	if result.Error != nil {
		return apperrors.Internal("failed to remove role", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("role not found")
	}
	return nil
}
