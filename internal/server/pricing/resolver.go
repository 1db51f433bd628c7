// Package pricing computes the effective cost of an article: per-item
// overrides take precedence field-by-field over system defaults.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
)

// Defaults holds the system-wide fallback price and currency labels.
type Defaults struct {
	Price          decimal.Decimal
	CurrencySymbol string
	CurrencyName   string
}

// Quote is the resolved price of one article. Amount is never negative.
type Quote struct {
	ArticleID      string
	Amount         decimal.Decimal
	CurrencySymbol string
	CurrencyName   string
}

// Resolve computes the Quote for an article. Any unset article field falls
// back to the corresponding default. No side effects.
func Resolve(article *content.Article, defaults Defaults) Quote {
	q := Quote{
		ArticleID:      article.ID,
		Amount:         defaults.Price,
		CurrencySymbol: defaults.CurrencySymbol,
		CurrencyName:   defaults.CurrencyName,
	}

	if article.Price != nil {
		q.Amount = *article.Price
	}
	if article.CurrencySymbol != "" {
		q.CurrencySymbol = article.CurrencySymbol
	}
	if article.CurrencyName != "" {
		q.CurrencyName = article.CurrencyName
	}

	if q.Amount.IsNegative() {
		q.Amount = decimal.Zero
	}

	return q
}
