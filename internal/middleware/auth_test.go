// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/decorahub/ecommerce-backend/internal/utils"
)

func authTestRouter(extra ...gin.HandlerFunc) (*gin.Engine, map[string]any) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	captured := map[string]any{}
	handlers := append([]gin.HandlerFunc{AuthRequired(nil)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		if id, ok := utils.GetUserIDFromContext(c); ok {
			captured["user_id"] = id
		}
		if roles, ok := utils.GetUserRolesFromContext(c); ok {
			captured["user_roles"] = roles
		}
		captured["user_email"] = c.GetString(utils.ContextUserEmail)
		captured["access_token"] = c.GetString(utils.ContextAccessToken)
		c.Status(http.StatusOK)
	})
	r.GET("/protected", handlers...)
	return r, captured
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r, _ := authTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	r, _ := authTestRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r, _ := authTestRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "user@example.com", []string{"CUSTOMER"}, 1)
	assert.NoError(t, err)

	r, captured := authTestRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), captured["user_id"])
	assert.Equal(t, "user@example.com", captured["user_email"])
	assert.Equal(t, []string{"CUSTOMER"}, captured["user_roles"])
	assert.Equal(t, token, captured["access_token"])
}

func TestAdminRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	customerToken, err := utils.GenerateJWT(uuid.New(), "c@example.com", []string{"CUSTOMER"}, 1)
	assert.NoError(t, err)
	adminToken, err := utils.GenerateJWT(uuid.New(), "a@example.com", []string{"CUSTOMER", "ADMIN"}, 1)
	assert.NoError(t, err)

	r, _ := authTestRouter(AdminRequired())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var hasUser bool
	r.GET("/public", OptionalAuth(nil), func(c *gin.Context) {
		_, hasUser = c.Get("user_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/public", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hasUser)
}

func TestOptionalAuthWithToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "user@example.com", nil, 1)
	assert.NoError(t, err)

	r := gin.New()
	var gotUserID string
	r.GET("/public", OptionalAuth(nil), func(c *gin.Context) {
		gotUserID = c.GetString("user_id")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), gotUserID)
}
