package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/modellimit"
	"github.com/use-agent/distill/models"
)

// Models returns a handler for GET /api/v1/models.
//
// Without a query parameter it reports the catalog with zero usage. With
// `?tokens=N` every entry carries the usage ratio and remaining budget for
// a prompt of N tokens.
func Models() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := 0
		if raw := c.Query("tokens"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Success: false,
					Error: &models.ErrorDetail{
						Code:    models.ErrCodeInvalidInput,
						Message: "tokens must be a non-negative integer",
					},
				})
				return
			}
			tokens = parsed
		}

		c.JSON(http.StatusOK, models.ModelsResponse{
			Models: modellimit.Usage(tokens),
		})
	}
}
