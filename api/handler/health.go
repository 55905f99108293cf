package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/models"
)

// Version is the service version reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// The service is stateless apart from the response cache, so health is a
// liveness signal plus cache occupancy for dashboards.
func Health(cc *cache.Cache, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats models.CacheStats
		if cc != nil {
			stats = cc.Stats()
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     "healthy",
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			CacheStats: stats,
			Version:    Version,
		})
	}
}
