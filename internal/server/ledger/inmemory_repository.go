package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

// InMemoryRepository keeps budgets in process memory. One mutex serializes
// every mutation, which gives the check-and-decrement of TryDeduct its
// atomicity.
type InMemoryRepository struct {
	mu       sync.Mutex
	budgets  map[string]*Budget
	consumed map[string]struct{}
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		budgets:  make(map[string]*Budget),
		consumed: make(map[string]struct{}),
	}
}

func (r *InMemoryRepository) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[owner]
	if !ok {
		return decimal.Zero, nil
	}
	return b.Balance, nil
}

func (r *InMemoryRepository) Credit(ctx context.Context, owner string, amount decimal.Decimal, proofID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, spent := r.consumed[proofID]; spent {
		return decimal.Zero, common.ErrorAlreadyConsumed
	}
	r.consumed[proofID] = struct{}{}

	b, ok := r.budgets[owner]
	if !ok {
		b = &Budget{Owner: owner, Balance: decimal.Zero}
		r.budgets[owner] = b
	}
	b.Balance = b.Balance.Add(amount)
	b.UpdatedAt = time.Now()

	return b.Balance, nil
}

func (r *InMemoryRepository) TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[owner]
	if !ok || b.Balance.LessThan(amount) {
		return false, nil
	}
	b.Balance = b.Balance.Sub(amount)
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *InMemoryRepository) TryConsume(ctx context.Context, proofID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, spent := r.consumed[proofID]; spent {
		return false, nil
	}
	r.consumed[proofID] = struct{}{}
	return true, nil
}
