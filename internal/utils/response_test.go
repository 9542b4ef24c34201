// internal/utils/response_test.go
package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
)

func doAppErrorResponse(t *testing.T, err error) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	AppErrorResponse(c, err)

	var body APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAppErrorResponseStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Validation("bad input"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperrors.NotFound("order not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperrors.Conflict("insufficient stock"), http.StatusConflict, "CONFLICT"},
		{apperrors.Unauthorized("invalid token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperrors.Forbidden("admins only"), http.StatusForbidden, "FORBIDDEN"},
		{apperrors.Gateway("stripe unreachable", errors.New("dial")), http.StatusBadGateway, "GATEWAY_ERROR"},
	}

	for _, tc := range cases {
		w, body := doAppErrorResponse(t, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, tc.code, body.Error.Code)
	}
}

func TestAppErrorResponseHidesInternalDetail(t *testing.T) {
	w, body := doAppErrorResponse(t, apperrors.Internal("query failed", errors.New("pq: connection reset")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body.Error.Message)
	assert.NotContains(t, body.Error.Message, "pq:")
}

func TestAppErrorResponseUntypedErrorIsInternal(t *testing.T) {
	w, body := doAppErrorResponse(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "Internal server error", body.Error.Message)
}
