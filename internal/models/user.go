// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"full_name" gorm:"size:255;not null"`
	Phone        string     `json:"phone" gorm:"size:30"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Roles    []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID"`
	Orders   []Order    `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	Wishlist []Product  `json:"wishlist,omitempty" gorm:"many2many:user_wishlist"`
}

type UserRole struct {
	BaseModel
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Role        Role      `json:"role" gorm:"type:varchar(20);not null"`
	Permissions JSONB     `json:"permissions" gorm:"type:jsonb"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Role))
	}
	return names
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
