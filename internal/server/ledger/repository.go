package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the storage contract for budgets and consumed payment
// proofs. All operations must be safe for concurrent callers; TryDeduct and
// TryConsume are the two correctness-critical primitives (see the
// implementations for the discipline each backend uses).
type Repository interface {
	// Balance returns the owner's balance; zero for unknown owners.
	Balance(ctx context.Context, owner string) (decimal.Decimal, error)

	// Credit applies a deposit at most once per proofID and returns the new
	// balance. A replayed proofID yields common.ErrorAlreadyConsumed.
	Credit(ctx context.Context, owner string, amount decimal.Decimal, proofID string) (decimal.Decimal, error)

	// TryDeduct atomically checks balance >= amount and, only then,
	// decrements by amount in the same step.
	TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error)

	// TryConsume marks a payment proof as spent, reporting false when it
	// was already consumed.
	TryConsume(ctx context.Context, proofID string) (bool, error)
}
