package models

// StatsResponse is the response for POST /api/v1/stats.
type StatsResponse struct {
	Success bool `json:"success"`

	// Stats holds the six measurements for the submitted text.
	Stats TextStats `json:"stats"`

	// Models reports how the canonical estimate sits against every
	// catalog entry (usage ratio and remaining budget).
	Models []ModelUsage `json:"models"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// OptimizeResponse is the response for POST /api/v1/optimize.
type OptimizeResponse struct {
	// Success indicates whether the optimization completed without errors.
	Success bool `json:"success"`

	// OptimizedText is the rewritten prompt in the requested format.
	OptimizedText string `json:"optimized_text"`

	// OriginalTokens / OptimizedTokens are the canonical estimates
	// before and after the rewrite passes.
	OriginalTokens  int `json:"original_tokens"`
	OptimizedTokens int `json:"optimized_tokens"`

	// Reduction is OriginalTokens - OptimizedTokens; may be <= 0.
	Reduction int `json:"reduction"`

	// ReductionPercent is the relative saving (0 when the original
	// estimate is 0).
	ReductionPercent float64 `json:"reduction_percent"`

	// AppliedStrategies lists the rewrite categories that fired, or the
	// sentinel entry when none did.
	AppliedStrategies []string `json:"applied_strategies"`

	// Similarity is the SimHash agreement between original and optimized
	// text in [0,1]. Informational only; low values flag aggressive
	// rewrites for the caller to review.
	Similarity float64 `json:"similarity"`

	// Stats holds TextStats for the optimized text when the request set
	// include_stats.
	Stats *TextStats `json:"stats,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CleaningMs is the time spent normalizing html input. 0 for text input.
	CleaningMs int64 `json:"cleaning_ms"`

	// OptimizeMs is the time spent in the rewrite pipeline.
	OptimizeMs int64 `json:"optimize_ms"`
}

// ModelsResponse is the response for GET /api/v1/models.
type ModelsResponse struct {
	Models []ModelUsage `json:"models"`
}

// ErrorResponse is the generic error envelope used by middleware and by
// endpoints without a richer response type.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status     string     `json:"status"` // "healthy" or "degraded"
	Uptime     string     `json:"uptime"`
	CacheStats CacheStats `json:"cache_stats"`
	Version    string     `json:"version"`
}

// CacheStats reports the state of the response cache.
type CacheStats struct {
	Entries    int `json:"entries"`
	MaxEntries int `json:"max_entries"`
}
