// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/decorahub/ecommerce-backend/internal/models"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

// currentUserID pulls the authenticated user id out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	roles, ok := utils.GetUserRolesFromContext(c)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

// parseIDParam parses a uuid path parameter, responding with 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
