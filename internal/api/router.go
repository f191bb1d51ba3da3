package api

import (
	"github.com/dgeni2/chamber-api/internal/api/handlers"
	apimiddleware "github.com/dgeni2/chamber-api/internal/api/middleware"
	"github.com/dgeni2/chamber-api/internal/cache"
	"github.com/dgeni2/chamber-api/internal/config"
	"github.com/dgeni2/chamber-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, store *cache.Store, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(store)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, store)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		harmonizeHandler := handlers.NewHarmonizeHandler(cfg, store, cw)
		v1.POST("/harmonize", harmonizeHandler.Harmonize)
		v1.GET("/instruments", handlers.ListInstruments)
		v1.GET("/examples", handlers.ListExamples)
	}

	return router
}
