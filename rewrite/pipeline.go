package rewrite

import (
	"math"
	"strings"

	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/token"
)

// Strategy labels reported in OptimizationResult.AppliedStrategies, in
// pipeline order.
const (
	StrategyWhitespace     = "whitespace"
	StrategyRedundancy     = "redundancy"
	StrategySimplification = "simplification"
	StrategyFiller         = "filler"
	StrategyPunctuation    = "punctuation"
	StrategyVoice          = "voice"

	// StrategyNone is the sentinel entry reported when no pass changed
	// the text. Callers always receive at least one strategy label.
	StrategyNone = "no significant optimization found"
)

// pass is one rewrite category: a pure string transform plus the label
// recorded when the transform changes the text.
type pass struct {
	strategy string
	apply    func(string) string
}

// catalog returns the passes in their fixed execution order. Order
// matters: later passes assume earlier normalization (the phrase
// patterns expect single-space word separation), and the progression
// runs from purely mechanical to increasingly semantic.
func catalog() []pass {
	return []pass{
		{StrategyWhitespace, collapseWhitespace},
		{StrategyRedundancy, removeRedundancy},
		{StrategySimplification, simplifyWording},
		{StrategyFiller, removeFillerWords},
		{StrategyPunctuation, collapsePunctuation},
		{StrategyVoice, activateVoice},
	}
}

// Optimize runs the rewrite catalog over text and reports the outcome.
//
// Flow:
//  1. Estimate tokens on the raw input.
//  2. Apply the six passes in catalog order, recording every category
//     that changed its input (strict before/after inequality).
//     Whitespace is re-normalized after the filler and voice passes,
//     which can leave gaps, without re-recording the whitespace label.
//  3. Estimate tokens on the final text and compute the saving.
//
// Optimize never mutates or retains the input; the result describes a
// candidate replacement the caller may adopt or discard. Deterministic
// and free of shared state, so concurrent calls need no coordination.
func Optimize(text string) (*models.OptimizationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewOptimizeError(
			models.ErrCodeEmptyText,
			"text is empty after trimming",
			nil,
		)
	}

	// ── 1. Original token estimate ──────────────────────────────────
	originalTokens := token.Advanced(text)

	// ── 2. Rewrite passes in catalog order ──────────────────────────
	applied := make([]string, 0, 6)
	current := text

	for _, p := range catalog() {
		next := p.apply(current)
		if next != current {
			applied = append(applied, p.strategy)
		}
		current = next

		switch p.strategy {
		case StrategyFiller, StrategyVoice:
			// Dropped words and moved agents leave double spaces
			// behind. Re-normalize silently.
			current = collapseWhitespace(current)
		}
	}

	if len(applied) == 0 {
		applied = append(applied, StrategyNone)
	}

	// ── 3. Optimized token estimate + saving ────────────────────────
	optimizedTokens := token.Advanced(current)

	reduction := originalTokens - optimizedTokens
	reductionPercent := 0.0
	if originalTokens > 0 {
		reductionPercent = float64(reduction) / float64(originalTokens) * 100
		// Round to 2 decimal places.
		reductionPercent = math.Round(reductionPercent*100) / 100
	}

	return &models.OptimizationResult{
		OriginalText:      text,
		OptimizedText:     current,
		OriginalTokens:    originalTokens,
		OptimizedTokens:   optimizedTokens,
		Reduction:         reduction,
		ReductionPercent:  reductionPercent,
		AppliedStrategies: applied,
	}, nil
}
