package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/distill/api/handler"
	"github.com/use-agent/distill/api/middleware"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/webhook"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics endpoints are intentionally outside auth so monitoring
// probes always work.
func NewRouter(cl *cleaner.Cleaner, cc *cache.Cache, notifier *webhook.Notifier, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	metrics := handler.NewMetrics()

	// Prometheus, no auth required.
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")

	// Health, no auth required.
	v1.GET("/health", handler.Health(cc, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Stats
	protected.POST("/stats", handler.Stats(metrics))

	// Optimize
	protected.POST("/optimize", handler.Optimize(cl, cc, metrics, cfg.Limits.MaxTextBytes))

	// Batch
	protected.POST("/batch/optimize", handler.PostBatch(cl, notifier, metrics, cfg.Limits.MaxBatchItems, cfg.Limits.BatchConcurrency))
	protected.GET("/batch/:id", handler.GetBatch())

	// Model catalog
	protected.GET("/models", handler.Models())

	// Live stats over websocket
	protected.GET("/live", handler.Live(metrics))

	return r
}
