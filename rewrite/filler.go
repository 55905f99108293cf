package rewrite

import (
	"strings"
	"unicode"
)

// fillerWords is the closed vocabulary removed by the filler pass.
// Entries are lowercase single words; matching is case-insensitive
// whole-word via the tokenizer below, never one giant alternation.
// The set stays disjoint from the redundancy deletions and from every
// simplification replacement so a word is only ever claimed by one pass.
var fillerWords = wordSet(
	// Certainty and hedging adverbs.
	"actually", "basically", "literally", "obviously", "clearly", "evidently",
	"apparently", "seemingly", "arguably", "presumably", "supposedly",
	"allegedly", "reportedly", "conceivably", "admittedly", "assuredly",
	"certainly", "surely", "definitely", "undoubtedly", "undeniably",
	"unquestionably", "absolutely", "positively", "truly", "genuinely",
	"honestly", "frankly", "candidly", "sincerely", "personally", "hopefully",
	"possibly", "probably", "perhaps", "maybe", "potentially", "ostensibly",
	"purportedly", "theoretically", "technically", "realistically",
	"truthfully", "objectively", "subjectively", "inherently", "intrinsically",
	"demonstrably", "patently", "manifestly", "decidedly", "distinctly",
	"emphatically", "categorically", "veritably", "palpably",

	// Degree and intensity.
	"essentially", "fundamentally", "practically", "virtually", "effectively",
	"relatively", "comparatively", "reasonably", "moderately", "slightly",
	"marginally", "somewhat", "fairly", "rather", "pretty", "largely",
	"mostly", "mainly", "primarily", "chiefly", "predominantly",
	"substantially", "significantly", "considerably", "incredibly",
	"amazingly", "exceptionally", "extraordinarily", "tremendously",
	"immensely", "enormously", "hugely", "vastly", "highly", "deeply",
	"profoundly", "strongly", "firmly", "totally", "completely", "entirely",
	"wholly", "fully", "utterly", "thoroughly", "perfectly", "purely",
	"simply", "merely", "just", "plainly", "outright", "awfully", "terribly",
	"horribly", "insanely", "wildly", "ridiculously", "absurdly",
	"staggeringly", "overwhelmingly", "exceedingly", "excessively", "overly",
	"unduly", "inordinately", "markedly", "measurably", "noticeably",
	"observably", "super", "downright",

	// Discourse connectives and framing.
	"anyway", "anyhow", "anyways", "regardless", "nevertheless",
	"nonetheless", "furthermore", "moreover", "additionally", "incidentally",
	"meanwhile", "likewise", "similarly", "conversely", "alternatively",
	"accordingly", "consequently", "hence", "thus", "indeed", "naturally",
	"importantly", "crucially", "critically", "notably", "remarkably",
	"surprisingly", "unsurprisingly", "interestingly", "astonishingly",
	"ironically", "coincidentally", "strangely", "oddly", "curiously",
	"sadly", "regrettably", "thankfully", "mercifully", "inevitably",
	"invariably", "ultimately", "eventually", "currently", "presently",
	"momentarily", "firstly", "secondly", "thirdly", "lastly", "overall",
	"altogether", "generally", "typically", "usually", "normally",
	"commonly", "ordinarily", "customarily", "broadly", "roughly",
	"loosely", "somehow", "kinda", "sorta",

	// Hedging adjectives.
	"actual", "literal", "obvious", "evident", "apparent", "seeming",
	"supposed", "alleged", "presumable", "undeniable", "unquestionable",
	"definite", "absolute", "utter", "sheer", "veritable", "proverbial",
	"various", "numerous", "countless", "myriad",
)

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// removeFillerWords deletes every whole word whose lowercase form is in
// fillerWords, together with one trailing space when present so the
// neighbors rejoin without a gap. Words are maximal runs of letters,
// digits, and apostrophes; all other runes pass through untouched.
func removeFillerWords(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		word := string(runes[i:j])

		if _, drop := fillerWords[strings.ToLower(word)]; drop {
			i = j
			if i < len(runes) && runes[i] == ' ' {
				i++ // the word takes one trailing space with it
			}
			continue
		}

		b.WriteString(word)
		i = j
	}
	return b.String()
}

// isWordRune reports whether r belongs to a word token. Apostrophes count
// so contractions stay whole ("don't" is one word, not "don" + "t").
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}
