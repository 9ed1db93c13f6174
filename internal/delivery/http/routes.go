package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rationcart/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint (no auth)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes, all user-scoped
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware())
	{
		lists := v1.Group("/lists")
		{
			lists.POST("", handler.CreateList)
			lists.GET("", handler.ListLists)
			lists.GET("/:id", handler.GetList)
			lists.GET("/:id/comparisons", handler.GetComparisons)
		}

		v1.POST("/ocr/process", handler.ProcessOCR)
		v1.POST("/prices/compare", handler.ComparePrices)
		v1.POST("/cart/automate", handler.AutomateCart)
	}

	return router
}
