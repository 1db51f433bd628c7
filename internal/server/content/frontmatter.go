package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// frontMatter mirrors the recognized metadata keys of a source document.
// Every key is optional.
type frontMatter struct {
	Title          string   `yaml:"title"`
	Author         string   `yaml:"author"`
	Date           string   `yaml:"date"`
	Excerpt        string   `yaml:"excerpt"`
	Tags           []string `yaml:"tags"`
	Price          *float64 `yaml:"price"`
	CurrencySymbol string   `yaml:"currencySymbol"`
	CurrencyName   string   `yaml:"currencyName"`
	Gated          *bool    `yaml:"gated"`
}

// splitDocument separates a raw document into parsed front matter and body.
// A document without a front matter block is all body.
func splitDocument(raw string) (frontMatter, string, error) {
	var meta frontMatter

	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	if !strings.HasPrefix(normalized, frontMatterDelimiter+"\n") {
		return meta, normalized, nil
	}

	rest := normalized[len(frontMatterDelimiter)+1:]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx < 0 {
		return meta, "", fmt.Errorf("unterminated front matter block")
	}

	head := rest[:idx]
	body := rest[idx+len(frontMatterDelimiter)+1:]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return frontMatter{}, "", fmt.Errorf("front matter: %w", err)
	}

	return meta, body, nil
}
