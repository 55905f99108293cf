package models

// TextStats is the per-text measurement bundle. All counts are computed
// over Unicode code points, never bytes.
type TextStats struct {
	// Characters is the rune count of the text.
	Characters int `json:"characters"`

	// Words is the number of whitespace-separated segments. 0 for blank text.
	Words int `json:"words"`

	// Lines is 1 + the number of newline characters. Never below 1,
	// so the empty string still counts as one line.
	Lines int `json:"lines"`

	// TokensCharBased estimates ceil(characters / 4).
	TokensCharBased int `json:"tokens_char_based"`

	// TokensWordBased estimates ceil(words / 0.75).
	TokensWordBased int `json:"tokens_word_based"`

	// TokensAdvanced is the punctuation-weighted estimate. This is the
	// canonical number used everywhere a single token count is reported.
	TokensAdvanced int `json:"tokens_advanced"`
}

// OptimizationResult is the outcome of one pipeline run. It is built once
// and never mutated afterwards; both texts are retained so callers can
// diff or fall back to the original.
type OptimizationResult struct {
	// OriginalText is the input exactly as submitted.
	OriginalText string `json:"original_text"`

	// OptimizedText is the rewritten text after all passes.
	OptimizedText string `json:"optimized_text"`

	// OriginalTokens and OptimizedTokens are TokensAdvanced estimates
	// taken before and after the rewrite passes.
	OriginalTokens  int `json:"original_tokens"`
	OptimizedTokens int `json:"optimized_tokens"`

	// Reduction is OriginalTokens - OptimizedTokens. It can be zero or
	// negative; the pipeline never hides a regression.
	Reduction int `json:"reduction"`

	// ReductionPercent is 100 * Reduction / OriginalTokens, rounded to
	// two decimals. 0 when OriginalTokens is 0.
	ReductionPercent float64 `json:"reduction_percent"`

	// AppliedStrategies lists the rewrite categories that changed the
	// text, in pipeline order. When no pass changed anything it holds
	// the single sentinel entry "no significant optimization found".
	AppliedStrategies []string `json:"applied_strategies"`
}

// ModelLimit is one entry of the static context-window catalog.
type ModelLimit struct {
	Name        string `json:"name"`
	ContextSize int    `json:"context_size"`
}

// ModelUsage is a catalog entry annotated with budget arithmetic for a
// concrete token count.
type ModelUsage struct {
	Name        string `json:"name"`
	ContextSize int    `json:"context_size"`

	// UsageRatio is tokens / context size, not clamped: values above
	// 1.0 mean the text does not fit.
	UsageRatio float64 `json:"usage_ratio"`

	// Remaining is the unused budget, floored at zero.
	Remaining int `json:"remaining"`
}
