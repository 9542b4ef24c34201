// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
	assert.Equal(t, "", params.Search)
}

func TestGetPaginationParamsClampsInvalidInput(t *testing.T) {
	params := paramsForQuery(t, "page=0&limit=500&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassesThroughValidInput(t *testing.T) {
	params := paramsForQuery(t, "page=3&limit=50&sort=name&order=asc&search=oak")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "name", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "oak", params.Search)
}

func TestCreatePaginationResult(t *testing.T) {
	data := []string{"a", "b", "c"}
	result := CreatePaginationResult(data, 45, PaginationParams{Page: 2, Limit: 20})

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, int64(45), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, data, result.Data)
}

func TestCreatePaginationResultExactPages(t *testing.T) {
	result := CreatePaginationResult(nil, 40, PaginationParams{Page: 1, Limit: 20})
	assert.Equal(t, 2, result.TotalPages)
}
