// Package ledger keeps per-wallet pre-paid budgets. Deductions are
// all-or-nothing and deposits are idempotent on the payment proof
// identifier.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is one wallet's pre-paid balance. Balance never goes negative.
type Budget struct {
	Owner     string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
