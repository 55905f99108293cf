package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to the
// input HTML.
const minContentLength = 50

// ExtractContent runs the Mozilla Readability algorithm on rawHTML.
//
// On success it returns the Article with clean HTML in Content and plain
// text in TextContent.
//
// Fallback behaviour (optimization must never fail just because readability
// choked):
//   - If base URL parsing fails      → return input HTML in Content
//   - If readability.FromReader errs → return input HTML in Content
//   - If extracted TextContent < 50  → return input HTML in Content
func ExtractContent(rawHTML string, baseURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(baseURL)
	if err != nil {
		slog.Warn("readability: invalid base URL, falling back to input HTML",
			"base_url", baseURL, "error", err,
		)
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, falling back to input HTML",
			"error", err,
		)
		return fallbackArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability: extracted content too short, falling back to input HTML",
			"length", len(article.TextContent),
		)
		return fallbackArticle(rawHTML), false
	}

	return article, true
}

// fallbackArticle wraps input HTML into an Article so the pipeline can
// proceed uniformly regardless of whether readability succeeded.
func fallbackArticle(rawHTML string) readability.Article {
	return readability.Article{
		Content:     rawHTML,
		TextContent: stripTags(rawHTML),
	}
}
