// internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/decorahub/ecommerce-backend/internal/config"
	"github.com/decorahub/ecommerce-backend/internal/database"
	"github.com/decorahub/ecommerce-backend/internal/handlers"
	"github.com/decorahub/ecommerce-backend/internal/middleware"
	"github.com/decorahub/ecommerce-backend/internal/services"
	"github.com/decorahub/ecommerce-backend/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, mdb *mongo.Database, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		// Uploads fall back to local storage when S3 is unavailable.
		logrus.WithError(err).Warn("S3 storage unavailable, using local uploads")
		storageService = services.NewLocalStorageService(cfg)
	}
	cartService := services.NewCartService(rdb, cfg)
	analyticsService := services.NewAnalyticsService(mdb)

	authService := services.NewAuthService(db, cfg, rdb)
	userService := services.NewUserService(db, cfg)
	categoryService := services.NewCategoryService(db, cfg)
	productService := services.NewProductService(db, cfg, rdb)
	inventoryService := services.NewInventoryService(db, cfg)
	orderService := services.NewOrderService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg, orderService)
	reviewService := services.NewReviewService(db, cfg)
	wishlistService := services.NewWishlistService(db, cfg)
	templateService := services.NewTemplateService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService, storageService, cartService, analyticsService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService, analyticsService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService, productService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, analyticsService)
	templateHandler := handlers.NewTemplateHandler(templateService, cartService, analyticsService)
	cartHandler := handlers.NewCartHandler(cartService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit(cfg))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"postgres": "ok", "redis": "ok", "mongo": "ok"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "down"
			status = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		}
		if err := database.PingMongo(ctx, mdb); err != nil {
			checks["mongo"] = "down"
			status = http.StatusServiceUnavailable
		}

		health := "healthy"
		if status != http.StatusOK {
			health = "degraded"
		}
		c.JSON(status, gin.H{
			"status": health,
			"checks": checks,
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(rdb), authHandler.Logout)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/change-password", middleware.AuthRequired(rdb), authHandler.ChangePassword)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired(rdb))
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
		}

		// Catalog routes
		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.OptionalAuth(rdb), categoryHandler.List)
			categories.GET("/tree", categoryHandler.Tree)
			categories.GET("/:slug", categoryHandler.GetBySlug)
		}

		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(rdb), productHandler.List)
			products.GET("/recently-viewed", middleware.AuthRequired(rdb), productHandler.RecentlyViewed)
			products.GET("/:slug", middleware.OptionalAuth(rdb), productHandler.GetBySlug)

			products.GET("/:slug/reviews", reviewHandler.List)
			products.POST("/:slug/reviews", middleware.AuthRequired(rdb), reviewHandler.Create)
		}

		v1.DELETE("/reviews/:id", middleware.AuthRequired(rdb), reviewHandler.Delete)

		// Design templates
		templates := v1.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.GET("/:slug", templateHandler.GetBySlug)
			templates.POST("/:slug/apply", middleware.AuthRequired(rdb), templateHandler.Apply)
		}

		// Cart and sessions
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired(rdb))
		{
			cart.GET("", cartHandler.Get)
			cart.PUT("/items", cartHandler.SetItem)
			cart.DELETE("", cartHandler.Clear)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", middleware.OptionalAuth(rdb), cartHandler.CreateSession)
			sessions.GET("/:id", cartHandler.GetSession)
			sessions.DELETE("/:id", cartHandler.DeleteSession)
		}

		// Wishlist
		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired(rdb))
		{
			wishlist.GET("", wishlistHandler.List)
			wishlist.POST("/:productId", wishlistHandler.Add)
			wishlist.DELETE("/:productId", wishlistHandler.Remove)
		}

		// Orders
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired(rdb))
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.ListMine)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/cancel", orderHandler.Cancel)
		}

		// Payments
		payments := v1.Group("/payments")
		{
			// Webhook must stay public; the gateway signs its requests.
			payments.POST("/webhook", paymentHandler.Webhook)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired(rdb))
			{
				protected.POST("/intent", paymentHandler.CreateIntent)
				protected.POST("/confirm", paymentHandler.Confirm)
				protected.GET("", paymentHandler.History)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(rdb))
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/users", userHandler.ListUsers)
			admin.PUT("/users/:id/status", userHandler.SetUserStatus)
			admin.POST("/users/:id/roles", userHandler.AssignRole)
			admin.DELETE("/users/:id/roles/:role", userHandler.RemoveRole)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.POST("/products", productHandler.Create)
			admin.GET("/products/low-stock", productHandler.LowStock)
			admin.GET("/products/deleted", productHandler.ListDeleted)
			admin.GET("/products/:id", productHandler.GetByID)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.POST("/products/:id/restore", productHandler.Restore)
			admin.POST("/products/:id/variants", productHandler.AddVariant)
			admin.PUT("/products/:id/variants/:variantId", productHandler.UpdateVariant)
			admin.DELETE("/products/:id/variants/:variantId", productHandler.DeleteVariant)
			admin.POST("/products/:id/images", middleware.UploadRateLimit(cfg), productHandler.UploadImage)
			admin.DELETE("/products/:id/images/:imageId", productHandler.DeleteImage)

			admin.POST("/inventory", inventoryHandler.RecordMovement)
			admin.GET("/inventory", inventoryHandler.List)

			admin.GET("/orders", orderHandler.ListAll)
			admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)

			admin.GET("/payments", paymentHandler.ListAll)
			admin.GET("/payments/:id", paymentHandler.Get)
			admin.POST("/payments/refund", paymentHandler.Refund)

			admin.POST("/templates", templateHandler.Create)
			admin.PUT("/templates/:id", templateHandler.Update)
			admin.DELETE("/templates/:id", templateHandler.Delete)

			admin.GET("/analytics/products/:id", analyticsHandler.ProductStats)
			admin.GET("/analytics/users/:id", analyticsHandler.UserStats)
			admin.GET("/analytics/templates/:id", analyticsHandler.TemplateStats)
			admin.GET("/analytics/top-products", analyticsHandler.TopProducts)
		}
	}

	return r
}
