package rewrite

import (
	"regexp"
	"sort"
	"strings"
)

// whitespaceRun matches any run of two or more whitespace characters.
// Single newlines and tabs survive pass 1; only runs collapse.
var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// collapseWhitespace folds whitespace runs into single spaces and trims
// both ends.
func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// redundancyRule pairs a compiled pattern with its replacement. An empty
// replacement deletes the match (deletions also take one trailing space
// so adjacent words rejoin cleanly).
type redundancyRule struct {
	pattern *regexp.Regexp
	repl    string
}

// redundancyRules strip politeness boilerplate and shorten circumlocutions.
// Multi-word preambles run before their single-word suffixes so that
// "could you please" is consumed as a unit and not left as "could you".
var redundancyRules = []redundancyRule{
	{regexp.MustCompile(`(?i)\bi would like you to\b ?`), ""},
	{regexp.MustCompile(`(?i)\bi want you to\b ?`), ""},
	{regexp.MustCompile(`(?i)\bcould you please\b ?`), ""},
	{regexp.MustCompile(`(?i)\bcan you please\b ?`), ""},
	{regexp.MustCompile(`(?i)\bdue to the fact that\b`), "because"},
	{regexp.MustCompile(`(?i)\bat this point in time\b`), "now"},
	{regexp.MustCompile(`(?i)\bin order to\b`), "to"},
	{regexp.MustCompile(`(?i)\bfor the purpose of\b`), "to"},
	{regexp.MustCompile(`(?i)\bplease\b ?`), ""},
	{regexp.MustCompile(`(?i)\bkindly\b ?`), ""},
	{regexp.MustCompile(`(?i)\bvery\b ?`), ""},
	{regexp.MustCompile(`(?i)\breally\b ?`), ""},
	{regexp.MustCompile(`(?i)\bquite\b ?`), ""},
	{regexp.MustCompile(`(?i)\bextremely\b ?`), ""},
}

func removeRedundancy(text string) string {
	for _, r := range redundancyRules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}

// simplifications maps formal wording to a shorter synonym. Whole words,
// case-insensitive; replacements are lowercase literals.
var simplifications = map[string]string{
	"utilize":       "use",
	"demonstrate":   "show",
	"facilitate":    "help",
	"implement":     "do",
	"approximately": "about",
	"subsequently":  "then",
	"therefore":     "so",
}

// simplificationPattern is built from the table keys so the two can never
// drift apart.
var simplificationPattern = func() *regexp.Regexp {
	words := make([]string, 0, len(simplifications))
	for w := range simplifications {
		words = append(words, w)
	}
	sort.Strings(words)
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
}()

func simplifyWording(text string) string {
	return simplificationPattern.ReplaceAllStringFunc(text, func(m string) string {
		if short, ok := simplifications[strings.ToLower(m)]; ok {
			return short
		}
		return m
	})
}

// punctuationRun matches two or more consecutive sentence-ending marks.
// Mixed runs ("?!", "...") all collapse to a single period.
var punctuationRun = regexp.MustCompile(`[.!?]{2,}`)

func collapsePunctuation(text string) string {
	return punctuationRun.ReplaceAllString(text, ".")
}

// Passive-voice patterns. Narrow on purpose: only these constructions
// convert, and the morphology is a blunt suffix swap, not grammar.
var (
	presentPassive = regexp.MustCompile(`(?i)\bis being (\w+)\b`)
	pastPassive    = regexp.MustCompile(`(?i)\b(?:was|were) (\w+ed) by (\w+)\b`)
)

// activateVoice rewrites the matched passive constructions to active
// forms. "is being <verb>" becomes the verb with its -ed suffix stripped
// and -s appended, so "is being worked" gives "works" and "is being done"
// gives the ungrammatical "dones". Irregular verbs ("written") simply
// never match the past pattern. The contract is token reduction, not
// grammar.
func activateVoice(text string) string {
	out := presentPassive.ReplaceAllStringFunc(text, func(m string) string {
		sub := presentPassive.FindStringSubmatch(m)
		return strings.TrimSuffix(sub[1], "ed") + "s"
	})
	return pastPassive.ReplaceAllString(out, "$2 $1")
}
