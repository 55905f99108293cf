package models

// BatchOptimizeRequest is the payload for POST /api/v1/batch/optimize.
type BatchOptimizeRequest struct {
	// Texts is the list of prompts to optimize. Required.
	Texts []string `json:"texts" binding:"required,min=1,max=100"`

	// Options contains shared optimize options applied to all texts.
	Options BatchOptions `json:"options"`

	// WebhookURL, when set, receives a signed batch.completed event once
	// every item has finished.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// BatchOptions are the shared settings applied to every text in a batch.
type BatchOptions struct {
	InputFormat  string `json:"input_format,omitempty" binding:"omitempty,oneof=text html"`
	ExtractMode  string `json:"extract_mode,omitempty" binding:"omitempty,oneof=readability raw pruning"`
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown text markdown_citations"`
	IncludeStats bool   `json:"include_stats,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/optimize.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Completed int                 `json:"completed"`
	Total     int                 `json:"total"`
	Results   []*OptimizeResponse `json:"results,omitempty"`
}

// BatchJob tracks an in-progress batch optimize operation.
type BatchJob struct {
	ID        string
	Status    string // "processing", "completed", "failed", "partial"
	Total     int
	Completed int
	Results   []*OptimizeResponse
	CreatedAt int64 // unix timestamp
}
