package content

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts a validated body to HTML. On renderer failure it falls
// back to an escaped plain-text rendition rather than failing the request.
func Render(body string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(body), &buf); err != nil {
		return escapeFallback(body)
	}
	return buf.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeFallback(body string) string {
	return strings.ReplaceAll(htmlEscaper.Replace(body), "\n", "<br>\n")
}

var (
	scriptBlock  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeBlock  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>|<iframe\b[^>]*/?>`)
	badScheme    = regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`)
	eventHandler = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// Sanitize strips script and iframe blocks (including their contents),
// javascript:/vbscript: URI schemes, and inline event-handler attribute
// assignments. It reports ok=false only when nothing survives.
func Sanitize(raw string) (string, bool) {
	cleaned := scriptBlock.ReplaceAllString(raw, "")
	cleaned = iframeBlock.ReplaceAllString(cleaned, "")
	cleaned = badScheme.ReplaceAllString(cleaned, "")
	cleaned = eventHandler.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	return cleaned, cleaned != ""
}
