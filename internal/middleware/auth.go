// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/decorahub/ecommerce-backend/internal/i18n"
	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func AuthRequired(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthTokenExpired),
			})
			c.Abort()
			return
		}

		// Reject tokens that were revoked by logout. A cache outage fails
		// open so a Redis restart does not lock everyone out.
		if rdb != nil {
			exists, err := rdb.Exists(c.Request.Context(), utils.BlacklistKey(token)).Result()
			if err == nil && exists > 0 {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": i18n.T(lang, i18n.KeyAuthTokenRevoked),
				})
				c.Abort()
				return
			}
		}

		// Set user info in context
		c.Set(utils.ContextUserID, claims.UserID)
		c.Set(utils.ContextUserEmail, claims.Email)
		c.Set(utils.ContextUserRoles, claims.Roles)
		c.Set(utils.ContextAccessToken, token)
		c.Next()
	}
}

func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		roles, exists := utils.GetUserRolesFromContext(c)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyAdminAccessDenied),
			})
			c.Abort()
			return
		}

		for _, r := range roles {
			if r == string(role) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": i18n.T(lang, i18n.KeyAdminAccessDenied),
		})
		c.Abort()
	}
}

func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}

func OptionalAuth(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.Next()
			return
		}

		if rdb != nil {
			exists, err := rdb.Exists(c.Request.Context(), utils.BlacklistKey(token)).Result()
			if err == nil && exists > 0 {
				c.Next()
				return
			}
		}

		// Set user info in context if token is valid
		c.Set(utils.ContextUserID, claims.UserID)
		c.Set(utils.ContextUserEmail, claims.Email)
		c.Set(utils.ContextUserRoles, claims.Roles)
		c.Set(utils.ContextAccessToken, token)
		c.Next()
	}
}
