// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/i18n"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}

	// Clean up old visitors every minute
	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.mtx.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			lang := c.GetString("lang")
			if lang == "" {
				lang = "en"
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": i18n.T(lang, i18n.KeyRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GeneralRateLimit throttles all traffic per client IP.
func GeneralRateLimit(cfg *config.Config) gin.HandlerFunc {
	return NewRateLimiter(
		rate.Limit(cfg.RateLimit.GeneralPerSecond), cfg.RateLimit.GeneralBurst).Middleware()
}

// AuthRateLimit throttles login and registration attempts.
func AuthRateLimit(cfg *config.Config) gin.HandlerFunc {
	return NewRateLimiter(
		perMinute(cfg.RateLimit.AuthPerMinute), cfg.RateLimit.AuthBurst).Middleware()
}

// UploadRateLimit throttles image uploads.
func UploadRateLimit(cfg *config.Config) gin.HandlerFunc {
	return NewRateLimiter(
		perMinute(cfg.RateLimit.UploadPerMinute), cfg.RateLimit.UploadBurst).Middleware()
}

func perMinute(n float64) rate.Limit {
	return rate.Limit(n / 60)
}
