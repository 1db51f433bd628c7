package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/payment"
)

// Service wraps a Repository with deposit verification. Deposits are only
// credited after the external verifier accepts the proof, and the proof's
// consumed-state is recorded in the same atomic step as the credit.
type Service struct {
	repo         Repository
	verifier     payment.Verifier
	payTo        string
	network      string
	currencyName string
	logger       logging.Logger
}

func NewService(repo Repository, verifier payment.Verifier, payTo, network, currencyName string, logger logging.Logger) *Service {
	return &Service{
		repo:         repo,
		verifier:     verifier,
		payTo:        payTo,
		network:      network,
		currencyName: currencyName,
		logger:       logger.With("module", "ledger"),
	}
}

// Balance returns the owner's pre-paid balance, zero for unknown owners.
func (s *Service) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	if owner == "" {
		return decimal.Zero, common.ErrorValidation
	}
	return s.repo.Balance(ctx, owner)
}

// ConfirmDeposit verifies the proof against the configured destination and
// credits the owner's budget at most once per proof identifier.
func (s *Service) ConfirmDeposit(ctx context.Context, owner string, amount decimal.Decimal, proof payment.Proof) (decimal.Decimal, error) {
	if owner == "" || proof.ID == "" {
		return decimal.Zero, common.ErrorValidation
	}
	if !amount.IsPositive() {
		return decimal.Zero, common.ErrorValidation
	}

	err := s.verifier.Verify(ctx, proof, payment.Expectation{
		Destination:  s.payTo,
		Network:      s.network,
		Amount:       amount,
		CurrencyName: s.currencyName,
	})
	if err != nil {
		s.logger.Warn(ctx, "deposit proof rejected", "owner", owner, "proof", proof.ID)
		return decimal.Zero, fmt.Errorf("%w: %v", common.ErrorInvalidProof, err)
	}

	balance, err := s.repo.Credit(ctx, owner, amount, proof.ID)
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info(ctx, "deposit confirmed", "owner", owner, "balance", balance.String())
	return balance, nil
}

// TryDeduct atomically charges the owner, reporting whether the charge was
// granted.
func (s *Service) TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error) {
	if owner == "" {
		return false, nil
	}
	if amount.IsNegative() {
		return false, common.ErrorValidation
	}
	if amount.IsZero() {
		return true, nil
	}
	return s.repo.TryDeduct(ctx, owner, amount)
}

// TryConsume marks a direct-payment proof as spent; false means replay.
func (s *Service) TryConsume(ctx context.Context, proofID string) (bool, error) {
	if proofID == "" {
		return false, common.ErrorValidation
	}
	return s.repo.TryConsume(ctx, proofID)
}
