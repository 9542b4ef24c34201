// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/decorahub/ecommerce-backend/internal/config"
)

func TestGeneralRateLimitEnforcesConfiguredBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.RateLimit.GeneralPerSecond = 0.001
	cfg.RateLimit.GeneralBurst = 2

	r := gin.New()
	r.Use(GeneralRateLimit(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	var statuses []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		statuses = append(statuses, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestPerMinuteConversion(t *testing.T) {
	assert.Equal(t, rate.Limit(1), perMinute(60))
	assert.Equal(t, rate.Limit(0.5), perMinute(30))
}
