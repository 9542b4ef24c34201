// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
	rdb *redis.Client
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
		rdb: rdb,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, apperrors.Conflict("email already registered")
	}

	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: true,
		Roles: []models.UserRole{
			{Role: models.RoleCustomer},
		},
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	var user models.User
	if err := s.db.Preload("Roles").Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal("failed to fetch user", err)
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("user account is inactive")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	return s.issueTokens(&user)
}

// Logout revokes the presented access token by putting it on the Redis
// blacklist for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return apperrors.Unauthorized("invalid token")
	}

	ttl := utils.TokenRemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, utils.BlacklistKey(token), "1", ttl).Err(); err != nil {
		return apperrors.Internal("failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) Refresh(req *RefreshRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	subject, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	var user models.User
	if err := s.db.Preload("Roles").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, apperrors.Internal("failed to fetch user", err)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("user account is inactive")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal("failed to fetch user", err)
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	if err := s.db.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return apperrors.Internal("failed to update password", err)
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, user.RoleNames(), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
