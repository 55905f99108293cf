package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/models"
)

// respondError maps an OptimizeError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	optErr, ok := err.(*models.OptimizeError)
	if !ok {
		optErr = models.NewOptimizeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(optErr), models.OptimizeResponse{
		Success: false,
		Error:   optErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.OptimizeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeEmptyText:
		return http.StatusBadRequest // 400
	case models.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge // 413
	case models.ErrCodeExtraction:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
