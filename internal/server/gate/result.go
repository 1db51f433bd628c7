// Package gate decides, per request, whether an article is releasable: it
// resolves the price, consults the budget ledger, and falls back to issuing
// a payment challenge or verifying a supplied proof.
package gate

import (
	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
)

// Outcome tags the result of one access decision. "Insufficient budget" is
// an expected, frequent outcome, so it is modeled as a Challenge result
// rather than an error.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeChallenge
	OutcomeDenied
)

// DenyReason is the specific terminal denial returned to callers.
type DenyReason string

const (
	DenyNotFound        DenyReason = "not-found"
	DenyPaymentRejected DenyReason = "payment-rejected"
	DenyProofConsumed   DenyReason = "proof-consumed"
)

// Challenge asks the caller to pay before content is released. It lives for
// one request/response cycle and is never persisted.
type Challenge struct {
	ArticleID      string
	Amount         decimal.Decimal
	CurrencySymbol string
	CurrencyName   string
	PayTo          string
	Network        string
	Nonce          string
}

// Grant is the ephemeral record of a granted access: whether the article
// was charged at all, and if so whether the charge came from the pre-paid
// budget or a just-verified direct payment.
type Grant struct {
	ArticleID      string
	Charged        bool
	PaidFromBudget bool
}

// Result is the tagged outcome of the gate: exactly one of Article+Grant
// (delivered), Challenge, or Reason (denied) is meaningful, per Outcome.
type Result struct {
	Outcome   Outcome
	Article   *content.Article
	Grant     *Grant
	Challenge *Challenge
	Reason    DenyReason
}

func delivered(a *content.Article, g Grant) *Result {
	return &Result{Outcome: OutcomeDelivered, Article: a, Grant: &g}
}

func challenge(c Challenge) *Result {
	return &Result{Outcome: OutcomeChallenge, Challenge: &c}
}

func denied(reason DenyReason) *Result {
	return &Result{Outcome: OutcomeDenied, Reason: reason}
}
