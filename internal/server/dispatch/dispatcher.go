// Package dispatch exposes the gateway's operations as MCP tools over
// JSON-RPC 2.0. It validates arguments, resolves caller identity, and maps
// internal outcomes to wire payloads without leaking paths or internals.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/auth"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/gate"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/payment"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/pricing"
)

const protocolVersion = "2024-11-05"

// Narrow views of the collaborators, so tests can substitute fakes.
type catalog interface {
	List(ctx context.Context) ([]content.Article, error)
	Get(ctx context.Context, id string) (*content.Article, error)
}

type accessGate interface {
	Access(ctx context.Context, id, caller string, proof *payment.Proof) (*gate.Result, error)
}

type budgetService interface {
	Balance(ctx context.Context, owner string) (decimal.Decimal, error)
	ConfirmDeposit(ctx context.Context, owner string, amount decimal.Decimal, proof payment.Proof) (decimal.Decimal, error)
}

// Headers carries the transport-level identity and payment values attached
// to one request.
type Headers struct {
	Payer   string
	Payment string
}

type Dispatcher struct {
	store    catalog
	gate     accessGate
	ledger   budgetService
	defaults pricing.Defaults
	secret   []byte
	logger   logging.Logger
}

func NewDispatcher(store *content.Store, g *gate.Gate, l *ledger.Service, defaults pricing.Defaults, secretKey string, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		gate:     g,
		ledger:   l,
		defaults: defaults,
		secret:   []byte(secretKey),
		logger:   logger.With("module", "dispatch"),
	}
}

// Handle processes one JSON-RPC request. A nil response means the request
// was a notification and nothing should be written back.
func (d *Dispatcher) Handle(ctx context.Context, req *rpcRequest, hdr Headers) *rpcResponse {
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, codeInvalidRequest, "invalid request")
	}

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "articles-gateway", "version": "1.0.0"},
		})
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": toolDescriptors})
	case "tools/call":
		return d.handleCall(ctx, req, hdr)
	default:
		if req.ID == nil {
			// Notification, e.g. notifications/initialized.
			return nil
		}
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (d *Dispatcher) handleCall(ctx context.Context, req *rpcRequest, hdr Headers) *rpcResponse {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params")
	}

	var (
		result *toolResult
		err    error
	)
	switch params.Name {
	case "list_articles":
		result, err = d.listArticles(ctx)
	case "preview_article":
		result, err = d.previewArticle(ctx, params.Arguments)
	case "get_article":
		result, err = d.getArticle(ctx, params.Arguments, hdr)
	case "get_balance":
		result, err = d.getBalance(ctx, params.Arguments)
	case "confirm_deposit":
		result, err = d.confirmDeposit(ctx, params.Arguments)
	default:
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
	}
	if err != nil {
		d.logger.Error(ctx, "tool call failed", "tool", params.Name, "error", err.Error())
		return errorResponse(req.ID, codeInternalError, "internal error")
	}

	return resultResponse(req.ID, result)
}

// articleSummary is the wire form of one catalog entry.
type articleSummary struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author,omitempty"`
	Date            string   `json:"date,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	WordCount       int      `json:"wordCount"`
	ReadTimeMinutes int      `json:"readTimeMinutes"`
	Gated           bool     `json:"gated"`
	Price           string   `json:"price"`
	CurrencySymbol  string   `json:"currencySymbol"`
	CurrencyName    string   `json:"currencyName"`
	Excerpt         string   `json:"excerpt,omitempty"`
}

func (d *Dispatcher) summarize(a *content.Article) articleSummary {
	quote := pricing.Resolve(a, d.defaults)
	price := quote.Amount
	if !a.Gated {
		price = decimal.Zero
	}
	return articleSummary{
		ID:              a.ID,
		Title:           a.Title,
		Author:          a.Author,
		Date:            a.Date,
		Tags:            a.Tags,
		WordCount:       a.WordCount,
		ReadTimeMinutes: a.ReadTimeMinutes,
		Gated:           a.Gated,
		Price:           price.String(),
		CurrencySymbol:  quote.CurrencySymbol,
		CurrencyName:    quote.CurrencyName,
		Excerpt:         a.Excerpt,
	}
}

func (d *Dispatcher) listArticles(ctx context.Context) (*toolResult, error) {
	articles, err := d.store.List(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorScanFailed) {
			return toolError("content source is currently unavailable"), nil
		}
		return nil, err
	}

	summaries := make([]articleSummary, 0, len(articles))
	for i := range articles {
		summaries = append(summaries, d.summarize(&articles[i]))
	}
	return jsonResult(map[string]any{"articles": summaries, "count": len(summaries)})
}

func (d *Dispatcher) previewArticle(ctx context.Context, args json.RawMessage) (*toolResult, error) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.ID == "" {
		return toolError("missing required argument: id"), nil
	}
	if !content.ValidID(in.ID) {
		return toolError("article not found"), nil
	}

	article, err := d.store.Get(ctx, in.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return toolError("article not found"), nil
		}
		return nil, err
	}

	return jsonResult(map[string]any{
		"article": d.summarize(article),
		"preview": content.Preview(article.Body, content.DefaultPreviewParagraphs),
	})
}

func (d *Dispatcher) getArticle(ctx context.Context, args json.RawMessage, hdr Headers) (*toolResult, error) {
	var in struct {
		ID      string `json:"id"`
		Payer   string `json:"payer"`
		Payment string `json:"payment"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.ID == "" {
		return toolError("missing required argument: id"), nil
	}
	if !content.ValidID(in.ID) {
		return toolError("article not found"), nil
	}

	payer := in.Payer
	if payer == "" {
		payer = hdr.Payer
	}
	caller, err := auth.ResolveIdentity(payer, d.secret)
	if err != nil {
		return toolError("invalid identity token"), nil
	}

	rawPayment := in.Payment
	if rawPayment == "" {
		rawPayment = hdr.Payment
	}
	var proof *payment.Proof
	if rawPayment != "" {
		proof, err = payment.ParseProof(rawPayment)
		if err != nil {
			return toolError("malformed payment payload"), nil
		}
		if proof.Payer == "" {
			proof.Payer = caller
		}
	}

	res, err := d.gate.Access(ctx, in.ID, caller, proof)
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case gate.OutcomeDelivered:
		return jsonResult(map[string]any{
			"status":         "ok",
			"article":        d.summarize(res.Article),
			"body":           res.Article.Body,
			"html":           res.Article.HTML,
			"charged":        res.Grant.Charged,
			"paidFromBudget": res.Grant.PaidFromBudget,
		})
	case gate.OutcomeChallenge:
		c := res.Challenge
		return jsonResult(map[string]any{
			"status": "payment_required",
			"challenge": map[string]any{
				"articleId":      c.ArticleID,
				"amount":         c.Amount.String(),
				"currencySymbol": c.CurrencySymbol,
				"currencyName":   c.CurrencyName,
				"payTo":          c.PayTo,
				"network":        c.Network,
				"nonce":          c.Nonce,
			},
		})
	case gate.OutcomeDenied:
		switch res.Reason {
		case gate.DenyNotFound:
			return toolError("article not found"), nil
		case gate.DenyProofConsumed:
			return toolError("payment already used"), nil
		default:
			return toolError("payment rejected"), nil
		}
	}
	return nil, fmt.Errorf("unexpected gate outcome %d", res.Outcome)
}

func (d *Dispatcher) getBalance(ctx context.Context, args json.RawMessage) (*toolResult, error) {
	var in struct {
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Owner == "" {
		return toolError("missing required argument: owner"), nil
	}

	owner, err := auth.ResolveIdentity(in.Owner, d.secret)
	if err != nil || owner == "" {
		return toolError("invalid identity token"), nil
	}

	balance, err := d.ledger.Balance(ctx, owner)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return toolError("invalid wallet address"), nil
		}
		return nil, err
	}

	return jsonResult(map[string]any{"owner": owner, "balance": balance.String()})
}

func (d *Dispatcher) confirmDeposit(ctx context.Context, args json.RawMessage) (*toolResult, error) {
	var in struct {
		Owner   string `json:"owner"`
		Amount  string `json:"amount"`
		Payment string `json:"payment"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Owner == "" || in.Amount == "" || in.Payment == "" {
		return toolError("missing required arguments: owner, amount, payment"), nil
	}

	owner, err := auth.ResolveIdentity(in.Owner, d.secret)
	if err != nil || owner == "" {
		return toolError("invalid identity token"), nil
	}

	amount, err := decimal.NewFromString(in.Amount)
	if err != nil || !amount.IsPositive() {
		return toolError("amount must be a positive decimal"), nil
	}

	proof, err := payment.ParseProof(in.Payment)
	if err != nil {
		return toolError("malformed payment payload"), nil
	}
	if proof.Payer == "" {
		proof.Payer = owner
	}

	balance, err := d.ledger.ConfirmDeposit(ctx, owner, amount, *proof)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return toolError("invalid deposit request"), nil
		case errors.Is(err, common.ErrorInvalidProof):
			return toolError("payment rejected"), nil
		case errors.Is(err, common.ErrorAlreadyConsumed):
			return toolError("payment already used"), nil
		default:
			return nil, err
		}
	}

	return jsonResult(map[string]any{"owner": owner, "balance": balance.String()})
}
