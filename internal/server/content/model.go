// Package content implements the article store: it scans a content source,
// parses front matter, sanitizes and renders bodies, and serves cached
// list/preview/full views.
package content

import "github.com/shopspring/decimal"

// Article is a single publishable document. Metadata comes from the source
// file's front matter; Body and HTML are loaded lazily on full reads and are
// empty in cached summaries.
type Article struct {
	ID              string
	Title           string
	Author          string
	Date            string
	Tags            []string
	WordCount       int
	ReadTimeMinutes int
	Gated           bool

	// Price is nil when the article does not override the system default.
	Price          *decimal.Decimal
	CurrencySymbol string
	CurrencyName   string

	Excerpt string
	Body    string
	HTML    string
}

// cacheEntry wraps an Article plus its resolved source location and capture
// time. The resolved location always lies inside the configured content root.
type cacheEntry struct {
	article  Article
	fileName string
	path     string
	cachedAt int64
}
