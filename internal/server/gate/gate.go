package gate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/payment"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/pricing"
)

// Narrow views of the collaborators, so tests can substitute fakes.
type articleStore interface {
	Get(ctx context.Context, id string) (*content.Article, error)
}

type budget interface {
	TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error)
	TryConsume(ctx context.Context, proofID string) (bool, error)
}

// Gate runs the access-control state machine for one article request.
type Gate struct {
	store    articleStore
	ledger   budget
	verifier payment.Verifier
	defaults pricing.Defaults
	payTo    string
	network  string
	logger   logging.Logger
}

func NewGate(store *content.Store, l *ledger.Service, verifier payment.Verifier, defaults pricing.Defaults, payTo, network string, logger logging.Logger) *Gate {
	return &Gate{
		store:    store,
		ledger:   l,
		verifier: verifier,
		defaults: defaults,
		payTo:    payTo,
		network:  network,
		logger:   logger.With("module", "gate"),
	}
}

// Access decides whether the identified article is releasable to the
// caller. When both a sufficient budget and a supplied proof are present,
// budget deduction takes precedence, so there is never a double charge; a
// supplied-but-unverifiable proof is a denial, never a free grant.
func (g *Gate) Access(ctx context.Context, id, caller string, proof *payment.Proof) (*Result, error) {
	article, err := g.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return denied(DenyNotFound), nil
		}
		return nil, err
	}

	if !article.Gated {
		return delivered(article, Grant{ArticleID: article.ID}), nil
	}

	quote := pricing.Resolve(article, g.defaults)
	if quote.Amount.IsZero() {
		return delivered(article, Grant{ArticleID: article.ID}), nil
	}

	if caller != "" {
		granted, err := g.ledger.TryDeduct(ctx, caller, quote.Amount)
		if err != nil {
			return nil, err
		}
		if granted {
			g.logger.Info(ctx, "access paid from budget", "article", article.ID, "caller", caller)
			return delivered(article, Grant{ArticleID: article.ID, Charged: true, PaidFromBudget: true}), nil
		}
	}

	if proof != nil {
		return g.settleDirect(ctx, article, quote, proof)
	}

	return challenge(Challenge{
		ArticleID:      article.ID,
		Amount:         quote.Amount,
		CurrencySymbol: quote.CurrencySymbol,
		CurrencyName:   quote.CurrencyName,
		PayTo:          g.payTo,
		Network:        g.network,
		Nonce:          uuid.NewString(),
	}), nil
}

// settleDirect verifies a supplied proof and consumes it. The consumed
// state is recorded before any content is released, so an abandoned request
// cannot leave a proof replayable, and no lock is held across the external
// verifier call.
func (g *Gate) settleDirect(ctx context.Context, article *content.Article, quote pricing.Quote, proof *payment.Proof) (*Result, error) {
	err := g.verifier.Verify(ctx, *proof, payment.Expectation{
		Destination:  g.payTo,
		Network:      g.network,
		Amount:       quote.Amount,
		CurrencyName: quote.CurrencyName,
	})
	if err != nil {
		if errors.Is(err, common.ErrorPaymentRejected) {
			g.logger.Warn(ctx, "payment proof rejected", "article", article.ID)
			return denied(DenyPaymentRejected), nil
		}
		return nil, err
	}

	consumed, err := g.ledger.TryConsume(ctx, proof.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		g.logger.Warn(ctx, "payment proof replayed", "article", article.ID)
		return denied(DenyProofConsumed), nil
	}

	g.logger.Info(ctx, "access paid directly", "article", article.ID)
	return delivered(article, Grant{ArticleID: article.ID, Charged: true}), nil
}
