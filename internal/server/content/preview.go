package content

import (
	"regexp"
	"strings"
)

const (
	// DefaultPreviewParagraphs bounds how much of a gated article the free
	// preview operation exposes.
	DefaultPreviewParagraphs = 2

	// DefaultExcerptLength bounds the derived excerpt shown in listings.
	DefaultExcerptLength = 150

	wordsPerMinute = 200
)

var headingLine = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)

// Preview returns the first maxParagraphs non-heading paragraphs of body.
// A paragraph is text separated by a blank line; heading lines are excluded
// from the candidate set entirely, not just skipped at the boundary.
func Preview(body string, maxParagraphs int) string {
	if maxParagraphs <= 0 {
		maxParagraphs = DefaultPreviewParagraphs
	}

	var picked []string
	for _, para := range strings.Split(body, "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			lines = append(lines, line)
		}
		candidate := strings.TrimSpace(strings.Join(lines, "\n"))
		if candidate == "" {
			continue
		}
		picked = append(picked, candidate)
		if len(picked) == maxParagraphs {
			break
		}
	}

	return strings.Join(picked, "\n\n")
}

// Excerpt strips heading and emphasis markers from body, collapses
// whitespace, and truncates with an ellipsis when over maxLength.
func Excerpt(body string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	s := headingLine.ReplaceAllString(body, "")
	s = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

// countWords reports the number of whitespace-separated tokens in body.
func countWords(body string) int {
	return len(strings.Fields(body))
}

// readTimeMinutes estimates reading time, never reporting below one minute
// for non-empty bodies.
func readTimeMinutes(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	minutes := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
