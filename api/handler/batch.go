package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/rewrite"
	"github.com/use-agent/distill/simhash"
	"github.com/use-agent/distill/token"
	"github.com/use-agent/distill/webhook"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*models.BatchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/optimize.
// It validates the request, creates a batch job, and launches goroutines
// to optimize each text concurrently.
func PostBatch(cl *cleaner.Cleaner, notifier *webhook.Notifier, m *Metrics, maxItems, concurrency int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchOptimizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordRequest("batch", "invalid")
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if maxItems > 0 && len(req.Texts) > maxItems {
			m.RecordRequest("batch", "invalid")
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: fmt.Sprintf("maximum %d texts per batch", maxItems),
				},
			})
			return
		}

		jobID := "batch-" + uuid.New().String()
		job := &models.BatchJob{
			ID:        jobID,
			Status:    "processing",
			Total:     len(req.Texts),
			Completed: 0,
			Results:   make([]*models.OptimizeResponse, len(req.Texts)),
			CreatedAt: time.Now().Unix(),
		}
		batchStore.Store(jobID, job)

		// Launch optimization in background.
		go runBatch(cl, notifier, m, job, req, concurrency)

		m.RecordRequest("batch", "success")
		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.Texts),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := batchStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		job := val.(*models.BatchJob)
		c.JSON(http.StatusOK, models.BatchStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Completed: job.Completed,
			Total:     job.Total,
			Results:   job.Results,
		})
	}
}

// runBatch processes all texts in a batch job with concurrency limited by a
// semaphore, then reports completion to the webhook URL if one was given.
func runBatch(cl *cleaner.Cleaner, notifier *webhook.Notifier, m *Metrics, job *models.BatchJob, req models.BatchOptimizeRequest, concurrency int) {
	if concurrency <= 0 {
		concurrency = 4
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	var completed atomic.Int32
	var failed atomic.Int32

	for i, text := range req.Texts {
		wg.Add(1)
		go func(idx int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp := optimizeOne(cl, m, input, req.Options)
			job.Results[idx] = resp

			if resp.Success {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
			job.Completed = int(completed.Load()) + int(failed.Load())
		}(i, text)
	}

	wg.Wait()

	failedCount := int(failed.Load())
	completedCount := int(completed.Load())

	switch {
	case failedCount == job.Total:
		job.Status = "failed"
	case failedCount > 0:
		job.Status = "partial"
	default:
		job.Status = "completed"
	}
	job.Completed = completedCount + failedCount

	slog.Info("batch job finished",
		"id", job.ID,
		"status", job.Status,
		"completed", completedCount,
		"failed", failedCount,
		"total", job.Total,
	)

	if req.WebhookURL != "" && notifier != nil {
		notifier.DeliverAsync(req.WebhookURL, &webhook.Event{
			Type:      "batch.completed",
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data: models.BatchStatusResponse{
				ID:        job.ID,
				Status:    job.Status,
				Completed: job.Completed,
				Total:     job.Total,
				Results:   job.Results,
			},
		})
	}
}

// optimizeOne performs a single normalize+rewrite for one text using shared
// batch options. Mirrors the single-request flow minus caching.
func optimizeOne(cl *cleaner.Cleaner, m *Metrics, text string, opts models.BatchOptions) *models.OptimizeResponse {
	totalStart := time.Now()

	oreq := &models.OptimizeRequest{
		Text:         text,
		InputFormat:  opts.InputFormat,
		ExtractMode:  opts.ExtractMode,
		OutputFormat: opts.OutputFormat,
		IncludeStats: opts.IncludeStats,
	}
	oreq.Defaults()

	// Normalize html input.
	input := oreq.Text
	var cleaningMs int64
	if oreq.InputFormat == "html" {
		cleanStart := time.Now()
		normalized, err := cl.Normalize(input, cleaner.Options{
			ExtractMode:  oreq.ExtractMode,
			OutputFormat: oreq.OutputFormat,
		})
		cleaningMs = time.Since(cleanStart).Milliseconds()

		if err != nil {
			return batchItemError(err, models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				CleaningMs: cleaningMs,
			})
		}
		input = normalized
	}

	// Rewrite.
	optStart := time.Now()
	result, err := rewrite.Optimize(input)
	optimizeMs := time.Since(optStart).Milliseconds()

	if err != nil {
		return batchItemError(err, models.TimingInfo{
			TotalMs:    time.Since(totalStart).Milliseconds(),
			CleaningMs: cleaningMs,
			OptimizeMs: optimizeMs,
		})
	}

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
	if oreq.IncludeStats {
		stats := token.ComputeStats(result.OptimizedText)
		resp.Stats = &stats
	}
	resp.Timing = models.TimingInfo{
		TotalMs:    time.Since(totalStart).Milliseconds(),
		CleaningMs: cleaningMs,
		OptimizeMs: optimizeMs,
	}

	m.RecordOptimization(result)
	return resp
}

// batchItemError wraps a failed item into a response the results slice can
// hold alongside successes.
func batchItemError(err error, timing models.TimingInfo) *models.OptimizeResponse {
	optErr, ok := err.(*models.OptimizeError)
	if !ok {
		optErr = models.NewOptimizeError(models.ErrCodeInternal, err.Error(), err)
	}
	return &models.OptimizeResponse{
		Success: false,
		Error:   optErr.ToDetail(),
		Timing:  timing,
	}
}
