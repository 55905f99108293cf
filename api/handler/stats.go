package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/modellimit"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/token"
)

// Stats returns a handler for POST /api/v1/stats.
//
// Computes the six text measurements plus per-model context usage for the
// canonical (advanced) estimate. Empty text is valid input: one line, zero
// of everything else.
func Stats(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordRequest("stats", "invalid")
			c.JSON(http.StatusBadRequest, models.StatsResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		stats := token.ComputeStats(req.Text)

		m.RecordRequest("stats", "success")
		c.JSON(http.StatusOK, models.StatsResponse{
			Success: true,
			Stats:   stats,
			Models:  modellimit.Usage(stats.TokensAdvanced),
		})
	}
}
