package models

// StatsRequest is the payload for POST /api/v1/stats.
type StatsRequest struct {
	// Text is the prompt to measure. May be empty; stats for the empty
	// string are well defined (one line, zero of everything else).
	Text string `json:"text"`
}

// OptimizeRequest is the payload for POST /api/v1/optimize.
type OptimizeRequest struct {
	// Text is the prompt to optimize. Required.
	Text string `json:"text" binding:"required"`

	// InputFormat declares what Text contains.
	// "text" (default): Text is fed to the pipeline as-is.
	// "html": Text is normalized first (extraction + conversion) and the
	// pipeline runs on the converted result.
	InputFormat string `json:"input_format,omitempty" binding:"omitempty,oneof=text html"`

	// ExtractMode controls content extraction for html input.
	// "readability" (default): extract the main body, then convert.
	// "raw": skip extraction, convert the full document.
	// "pruning": scoring-based boilerplate removal, then convert.
	ExtractMode string `json:"extract_mode,omitempty" binding:"omitempty,oneof=readability raw pruning"`

	// OutputFormat controls the conversion target for html input.
	// Allowed: "markdown" (default), "text", "markdown_citations"
	// (markdown with inline links rewritten to numbered references).
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown text markdown_citations"`

	// BaseURL resolves relative hrefs when converting html input.
	BaseURL string `json:"base_url,omitempty" binding:"omitempty,url"`

	// Selector is an optional CSS selector applied before extraction.
	// When set, only the matched elements' outer HTML is processed.
	Selector string `json:"selector,omitempty"`

	// IncludeSelectors / ExcludeSelectors filter the html parse tree
	// before conversion. Include keeps only matching subtrees; exclude
	// drops matching subtrees from whatever remains.
	IncludeSelectors []string `json:"include_selectors,omitempty"`
	ExcludeSelectors []string `json:"exclude_selectors,omitempty"`

	// MaxAge enables the response cache: a cached result younger than
	// MaxAge milliseconds is returned instead of re-optimizing.
	// 0 (default) bypasses the cache entirely.
	MaxAge int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`

	// IncludeStats attaches TextStats for the optimized text to the
	// response. Default: false.
	IncludeStats bool `json:"include_stats,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *OptimizeRequest) Defaults() {
	if r.InputFormat == "" {
		r.InputFormat = "text"
	}
	if r.ExtractMode == "" {
		r.ExtractMode = "readability"
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "markdown"
	}
}
