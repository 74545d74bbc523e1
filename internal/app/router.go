package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"taximeter/internal/handler"
	"taximeter/internal/metrics"
	"taximeter/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	MeterHandler *handler.MeterHandler
	FixHandler   *handler.FixHandler
	RedisClient  *redis.Client
	NewRelicApp  *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics.
	metrics.RegisterDefault()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Meter routes.
		meter := v1.Group("/meter")
		{
			meter.GET("", deps.MeterHandler.GetState)
			meter.POST("/start", deps.MeterHandler.Start)
			meter.POST("/pause", deps.MeterHandler.Pause)
			meter.POST("/resume", deps.MeterHandler.Resume)
			meter.POST("/stop", deps.MeterHandler.Stop)
			meter.POST("/trip-type", deps.MeterHandler.SelectTripType)
			meter.POST("/mode", deps.MeterHandler.SetMode)
			meter.POST("/position", deps.MeterHandler.InjectPosition)
		}

		// Trip type catalog.
		v1.GET("/trip-types", deps.MeterHandler.ListTripTypes)

		// Device fix ingest.
		if deps.FixHandler != nil {
			fixes := v1.Group("/fixes")
			{
				fixes.POST("", deps.FixHandler.Publish)
				fixes.GET("/last", deps.FixHandler.LastFix)
			}
		}
	}

	return router
}
