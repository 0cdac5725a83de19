package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/config"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// SetupRouter creates and configures the Gin router.
// limiter may be nil to disable per-client rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, limiter RateLimiter, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	binding.Validator = validation.New()

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if limiter != nil {
		api.Use(RateLimitMiddleware(limiter))
	}
	{
		api.POST("/generate-questions", handler.GenerateQuestions)
		api.POST("/calculate-transparency-score", handler.CalculateTransparencyScore)
	}

	return router
}
