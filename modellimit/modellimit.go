package modellimit

import "github.com/use-agent/distill/models"

// defaultCatalog is the static context-window table, in display order.
// Read-only at runtime.
var defaultCatalog = []models.ModelLimit{
	{Name: "GPT-3.5 Turbo", ContextSize: 4096},
	{Name: "GPT-4", ContextSize: 8192},
	{Name: "GPT-4 Turbo", ContextSize: 32768},
	{Name: "Claude 3 Sonnet", ContextSize: 200000},
}

// Limits returns the catalog in its fixed order as a fresh copy.
func Limits() []models.ModelLimit {
	out := make([]models.ModelLimit, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// UsageRatio reports tokens/limit, unclamped: values above 1.0 mean the
// text does not fit. 0 for a non-positive limit so the function stays
// total.
func UsageRatio(tokens, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(tokens) / float64(limit)
}

// Remaining reports the unused budget, floored at zero.
func Remaining(tokens, limit int) int {
	if r := limit - tokens; r > 0 {
		return r
	}
	return 0
}

// Usage annotates every catalog entry with the ratio and remaining budget
// for the given token count.
func Usage(tokens int) []models.ModelUsage {
	out := make([]models.ModelUsage, 0, len(defaultCatalog))
	for _, m := range defaultCatalog {
		out = append(out, models.ModelUsage{
			Name:        m.Name,
			ContextSize: m.ContextSize,
			UsageRatio:  UsageRatio(tokens, m.ContextSize),
			Remaining:   Remaining(tokens, m.ContextSize),
		})
	}
	return out
}
