package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/use-agent/distill/models"
)

// Cleaner normalizes HTML input into prompt-ready text before token
// optimization:
//
//	Stage 1 (extract): pull main content, dropping nav/footer/sidebar/ads
//	Stage 2 (render):  clean HTML → Markdown, plain text, or citation Markdown
//
// The converter is created once and reused across all requests (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
}

// NewCleaner initialises the Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
	}
}

// Options carries the content-shaping parameters for Normalize.
type Options struct {
	// ExtractMode selects stage 1: "readability" (default), "raw", or
	// "pruning" (scoring-based boilerplate removal).
	ExtractMode string

	// OutputFormat selects stage 2: "markdown" (default), "text", or
	// "markdown_citations".
	OutputFormat string

	// BaseURL resolves relative links in the source HTML.
	BaseURL string

	// Selector keeps only elements matching one CSS selector. It runs
	// before the include/exclude filters.
	Selector string

	IncludeSelectors []string
	ExcludeSelectors []string
}

// Normalize runs the full pipeline on raw HTML and returns the text that
// goes into the optimizer.
//
// Flow:
//  1. Apply the CSS selector (if provided).
//  2. Apply include/exclude selector filters (if provided).
//  3. Stage 1: extract main content (readability, raw pass-through, or
//     score-based pruning). Fallback: if extraction fails or content is
//     too short, keep the filtered HTML.
//  4. Stage 2: render the requested output format.
func (c *Cleaner) Normalize(rawHTML string, opts Options) (string, error) {
	// ── 1. Single CSS selector ──────────────────────────────────────
	if opts.Selector != "" {
		selected, err := ApplyCSSSelector(rawHTML, opts.Selector)
		if err != nil {
			return "", models.NewOptimizeError(
				models.ErrCodeInvalidInput,
				"invalid selector: "+opts.Selector,
				err,
			)
		}
		rawHTML = selected
	}

	// ── 2. Include/exclude filtering ────────────────────────────────
	rawHTML = FilterContent(rawHTML, opts.IncludeSelectors, opts.ExcludeSelectors)

	// ── 3. Stage 1: content extraction ──────────────────────────────
	var article readability.Article
	switch opts.ExtractMode {
	case "raw":
		// Skip extraction; keep the filtered HTML as-is.
		article = fallbackArticle(rawHTML)
	case "pruning":
		article = fallbackArticle(PruneContent(rawHTML))
	default:
		// "readability" (default).
		article, _ = ExtractContent(rawHTML, opts.BaseURL)
	}

	// ── 4. Stage 2: render ──────────────────────────────────────────
	var content string
	var err error

	switch opts.OutputFormat {
	case "text":
		content = strings.TrimSpace(article.TextContent)

	case "markdown_citations":
		content, err = ToMarkdown(c.mdConverter, article.Content, opts.BaseURL)
		if err == nil {
			content = ConvertToCitations(content)
		}

	default:
		// "markdown" (default). Unknown formats render as markdown too.
		content, err = ToMarkdown(c.mdConverter, article.Content, opts.BaseURL)
	}
	if err != nil {
		return "", models.NewOptimizeError(
			models.ErrCodeExtraction,
			"markdown conversion failed",
			err,
		)
	}

	if strings.TrimSpace(content) == "" {
		return "", models.NewOptimizeError(
			models.ErrCodeExtraction,
			"no content could be extracted from the input",
			nil,
		)
	}

	return content, nil
}

// stripTags extracts visible text from an HTML fragment by parsing it with
// goquery. Returns trimmed plain text.
func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
