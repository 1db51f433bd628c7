// Package payment defines the narrow interface through which the gateway
// consumes an external payment verifier, and an HTTP client for x402-style
// facilitators. The core assumes no particular chain, token, or signature
// scheme.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Proof is an opaque signed-transaction reference plus the payer's public
// identity. The gateway forwards Payload to the verifier unmodified; ID is
// the idempotency key for consumption tracking.
type Proof struct {
	ID      string
	Payer   string
	Payload string
}

// Expectation describes what a proof must settle: destination identity,
// network, amount and currency.
type Expectation struct {
	Destination  string
	Network      string
	Amount       decimal.Decimal
	CurrencyName string
}

// Verifier validates a payment proof against an expectation. A nil error
// means accept; common.ErrorPaymentRejected (possibly wrapped) means the
// proof failed verification.
type Verifier interface {
	Verify(ctx context.Context, proof Proof, expect Expectation) error
}
