package token

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/distill/models"
)

// charsPerToken is the classic ~4-characters-per-token rule of thumb for
// English prose.
const charsPerToken = 4.0

// wordsPerToken mirrors the common guidance that a token is ~3/4 of a word.
const wordsPerToken = 0.75

// Advanced estimator calibration. Punctuation tends to tokenize on its
// own, structural whitespace costs a little extra, and the divisor sits
// slightly under the plain chars/4 rule to compensate.
const (
	advancedDivisor  = 3.8
	punctWeight      = 0.5
	structuralWeight = 0.3
)

// Chars counts Unicode code points, never bytes. "héllo" is 5.
func Chars(text string) int {
	return utf8.RuneCountInString(text)
}

// Words counts whitespace-separated segments. Blank text counts 0.
func Words(text string) int {
	return len(strings.Fields(text))
}

// Lines counts newline-separated lines: 1 + the number of '\n'. The count
// is never below 1, so the empty string is still one line.
func Lines(text string) int {
	return strings.Count(text, "\n") + 1
}

// CharBased estimates ceil(chars / 4).
func CharBased(text string) int {
	return int(math.Ceil(float64(Chars(text)) / charsPerToken))
}

// WordBased estimates ceil(words / 0.75).
func WordBased(text string) int {
	return int(math.Ceil(float64(Words(text)) / wordsPerToken))
}

// Advanced provides the canonical token estimate without importing a real
// tokenizer.
//
// Heuristic: ceil((chars + 0.5·punctuation + 0.3·structural) / 3.8) where
// punctuation counts . ! ? ; : , and structural counts \n and \t.
//
//   - Sentence punctuation usually becomes its own token, so each mark
//     adds half a character of weight on top of itself.
//   - Newlines and tabs cost a little, but less than visible characters.
//   - The 3.8 divisor runs a touch hotter than the plain chars/4 rule,
//     so heavily punctuated prompts estimate higher rather than lower.
//
// Every token estimate the service reports is this one. The other two
// estimators exist for comparison display only.
func Advanced(text string) int {
	var punct, structural int
	for _, r := range text {
		switch r {
		case '.', '!', '?', ';', ':', ',':
			punct++
		case '\n', '\t':
			structural++
		}
	}
	weighted := float64(Chars(text)) +
		punctWeight*float64(punct) +
		structuralWeight*float64(structural)
	return int(math.Ceil(weighted / advancedDivisor))
}

// ComputeStats bundles all six measurements for one text. Pure and cheap;
// the live endpoint runs it per websocket frame.
func ComputeStats(text string) models.TextStats {
	return models.TextStats{
		Characters:      Chars(text),
		Words:           Words(text),
		Lines:           Lines(text),
		TokensCharBased: CharBased(text),
		TokensWordBased: WordBased(text),
		TokensAdvanced:  Advanced(text),
	}
}
