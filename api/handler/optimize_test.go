package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/token"
)

func newOptimizeRouter(maxTextBytes int) *gin.Engine {
	r := gin.New()
	r.POST("/optimize", Optimize(cleaner.NewCleaner(), cache.New(100, time.Hour), testMetrics(), maxTextBytes))
	return r
}

func TestOptimize_TextInput(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text: "Please kindly utilize this   approach.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "use this approach.", resp.OptimizedText)
	assert.Equal(t, 11, resp.OriginalTokens)
	assert.Equal(t, 5, resp.OptimizedTokens)
	assert.Equal(t, 6, resp.Reduction)
	assert.Equal(t, 54.55, resp.ReductionPercent)
	assert.Equal(t, []string{"whitespace", "redundancy", "simplification"}, resp.AppliedStrategies)
	assert.GreaterOrEqual(t, resp.Similarity, 0.0)
	assert.LessOrEqual(t, resp.Similarity, 1.0)
	assert.Empty(t, resp.CacheStatus)
	assert.Nil(t, resp.Stats)
}

func TestOptimize_NoChangeSentinel(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text: "short prompt.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "short prompt.", resp.OptimizedText)
	assert.Equal(t, []string{"no significant optimization found"}, resp.AppliedStrategies)
	assert.Equal(t, 1.0, resp.Similarity)
}

func TestOptimize_IncludeStats(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text:         "Please utilize this approach.",
		IncludeStats: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, token.ComputeStats(resp.OptimizedText), *resp.Stats)
}

func TestOptimize_MissingText(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestOptimize_BlankTextAfterTrim(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{Text: "   \n\t "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeEmptyText, resp.Error.Code)
}

func TestOptimize_RejectsUnknownInputFormat(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", map[string]any{
		"text":         "hello there",
		"input_format": "xml",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_PayloadTooLarge(t *testing.T) {
	r := newOptimizeRouter(16)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text: "this text is certainly longer than sixteen bytes",
	})
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodePayloadTooLarge, resp.Error.Code)
}

func TestOptimize_HTMLInput(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text:         "<p>Please utilize this approach today.</p>",
		InputFormat:  "html",
		ExtractMode:  "raw",
		OutputFormat: "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "use this approach today.", resp.OptimizedText)
	assert.GreaterOrEqual(t, resp.Timing.CleaningMs, int64(0))
}

func TestOptimize_HTMLWithNoContent(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	rec := performJSON(t, r, http.MethodPost, "/optimize", models.OptimizeRequest{
		Text:         "<div></div>",
		InputFormat:  "html",
		ExtractMode:  "raw",
		OutputFormat: "text",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeJSON[models.OptimizeResponse](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeExtraction, resp.Error.Code)
}

func TestOptimize_CacheRoundTrip(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	req := models.OptimizeRequest{
		Text:   "Please utilize this approach whenever possible.",
		MaxAge: 60_000,
	}

	first := decodeJSON[models.OptimizeResponse](t, performJSON(t, r, http.MethodPost, "/optimize", req))
	assert.Equal(t, "miss", first.CacheStatus)

	second := decodeJSON[models.OptimizeResponse](t, performJSON(t, r, http.MethodPost, "/optimize", req))
	assert.Equal(t, "hit", second.CacheStatus)
	assert.Equal(t, first.OptimizedText, second.OptimizedText)
	assert.Equal(t, first.OriginalTokens, second.OriginalTokens)

	// Different options miss even for the same text.
	req.IncludeStats = false
	req.OutputFormat = "text"
	third := decodeJSON[models.OptimizeResponse](t, performJSON(t, r, http.MethodPost, "/optimize", req))
	assert.Equal(t, "miss", third.CacheStatus)
}

func TestOptimize_ZeroMaxAgeSkipsCache(t *testing.T) {
	r := newOptimizeRouter(1 << 20)

	req := models.OptimizeRequest{Text: "Please utilize this tool."}

	first := decodeJSON[models.OptimizeResponse](t, performJSON(t, r, http.MethodPost, "/optimize", req))
	assert.Empty(t, first.CacheStatus)

	second := decodeJSON[models.OptimizeResponse](t, performJSON(t, r, http.MethodPost, "/optimize", req))
	assert.Empty(t, second.CacheStatus)
}
