// internal/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/decorahub/ecommerce-backend/internal/config"
)

func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language", "X-Session-ID"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Total-Pages", "X-Current-Page", "X-Per-Page"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Environment == "production" {
		corsConfig.AllowOrigins = []string{cfg.Frontend.BaseURL}
	} else {
		corsConfig.AllowOrigins = []string{cfg.Frontend.BaseURL, "http://localhost:3000", "http://localhost:5173"}
	}

	return cors.New(corsConfig)
}
