package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/rewrite"
	"github.com/use-agent/distill/simhash"
	"github.com/use-agent/distill/token"
)

// Optimize returns a handler for POST /api/v1/optimize.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults, enforce the size limit.
//  2. Cache lookup (only when the request opts in via max_age_ms).
//  3. Cleaner.Normalize → prompt-ready text     (records cleaning_ms,
//     html input only)
//  4. rewrite.Optimize  → optimized text        (records optimize_ms)
//  5. SimHash similarity + optional stats, fill Timing, store in cache,
//     return 200.
func Optimize(cl *cleaner.Cleaner, cc *cache.Cache, m *Metrics, maxTextBytes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.OptimizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordRequest("optimize", "invalid")
			c.JSON(http.StatusBadRequest, models.OptimizeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 1b. Size limit ──────────────────────────────────────────
		if maxTextBytes > 0 && len(req.Text) > maxTextBytes {
			m.RecordRequest("optimize", "too_large")
			respondError(c,
				models.NewOptimizeError(
					models.ErrCodePayloadTooLarge,
					fmt.Sprintf("text exceeds the %d byte limit", maxTextBytes),
					nil,
				),
				models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()},
			)
			return
		}

		// ── 1c. Cache lookup ────────────────────────────────────────
		cacheKey := optimizeCacheKey(&req)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				m.RecordCache("hit")
				m.RecordRequest("optimize", "success")
				cached.CacheStatus = "hit"
				cached.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, cached)
				return
			}
			m.RecordCache("miss")
		}

		// ── 2. Normalize html input ─────────────────────────────────
		text := req.Text
		var cleaningMs int64
		if req.InputFormat == "html" {
			cleanStart := time.Now()
			normalized, err := cl.Normalize(req.Text, cleaner.Options{
				ExtractMode:      req.ExtractMode,
				OutputFormat:     req.OutputFormat,
				BaseURL:          req.BaseURL,
				Selector:         req.Selector,
				IncludeSelectors: req.IncludeSelectors,
				ExcludeSelectors: req.ExcludeSelectors,
			})
			cleaningMs = time.Since(cleanStart).Milliseconds()

			if err != nil {
				m.RecordRequest("optimize", "error")
				respondError(c, err, models.TimingInfo{
					TotalMs:    time.Since(totalStart).Milliseconds(),
					CleaningMs: cleaningMs,
				})
				return
			}
			text = normalized
		}

		// ── 3. Rewrite passes ───────────────────────────────────────
		optStart := time.Now()
		result, err := rewrite.Optimize(text)
		optimizeMs := time.Since(optStart).Milliseconds()

		if err != nil {
			m.RecordRequest("optimize", "error")
			respondError(c, err, models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				CleaningMs: cleaningMs,
				OptimizeMs: optimizeMs,
			})
			return
		}

		// ── 4. Assemble response ────────────────────────────────────
		resp := &models.OptimizeResponse{
			Success:           true,
			OptimizedText:     result.OptimizedText,
			OriginalTokens:    result.OriginalTokens,
			OptimizedTokens:   result.OptimizedTokens,
			Reduction:         result.Reduction,
			ReductionPercent:  result.ReductionPercent,
			AppliedStrategies: result.AppliedStrategies,
			Similarity:        simhash.Similarity(result.OriginalText, result.OptimizedText),
		}
		if req.IncludeStats {
			stats := token.ComputeStats(result.OptimizedText)
			resp.Stats = &stats
		}
		resp.Timing = models.TimingInfo{
			TotalMs:    time.Since(totalStart).Milliseconds(),
			CleaningMs: cleaningMs,
			OptimizeMs: optimizeMs,
		}

		// ── 5. Cache store ──────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, resp)
			resp.CacheStatus = "miss"
		}

		m.RecordRequest("optimize", "success")
		m.RecordOptimization(result)
		c.JSON(http.StatusOK, resp)
	}
}

// optimizeCacheKey derives the cache key from the text and every option
// that shapes the output.
func optimizeCacheKey(req *models.OptimizeRequest) string {
	selectors := strings.Join(
		append(append([]string{req.Selector}, req.IncludeSelectors...), req.ExcludeSelectors...),
		",",
	)
	return cache.Key(req.Text, req.InputFormat, req.ExtractMode, req.OutputFormat, selectors)
}
