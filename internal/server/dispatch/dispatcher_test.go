package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/gate"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/payment"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/pricing"
)

type fakeCatalog struct {
	articles []content.Article
	listErr  error
}

func (f *fakeCatalog) List(ctx context.Context) ([]content.Article, error) {
	return f.articles, f.listErr
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*content.Article, error) {
	for i := range f.articles {
		if f.articles[i].ID == id {
			return &f.articles[i], nil
		}
	}
	return nil, fmt.Errorf("article %s: %w", id, common.ErrorNotFound)
}

type fakeGate struct {
	result     *gate.Result
	lastCaller string
	lastProof  *payment.Proof
}

func (f *fakeGate) Access(ctx context.Context, id, caller string, proof *payment.Proof) (*gate.Result, error) {
	f.lastCaller = caller
	f.lastProof = proof
	return f.result, nil
}

type fakeBudgetService struct {
	balances map[string]decimal.Decimal
	depErr   error
}

func (f *fakeBudgetService) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	return f.balances[owner], nil
}

func (f *fakeBudgetService) ConfirmDeposit(ctx context.Context, owner string, amount decimal.Decimal, proof payment.Proof) (decimal.Decimal, error) {
	if f.depErr != nil {
		return decimal.Zero, f.depErr
	}
	return f.balances[owner].Add(amount), nil
}

func newTestDispatcher(cat *fakeCatalog, g *fakeGate, b *fakeBudgetService) *Dispatcher {
	return &Dispatcher{
		store:  cat,
		gate:   g,
		ledger: b,
		defaults: pricing.Defaults{
			Price:          decimal.RequireFromString("0.01"),
			CurrencySymbol: "$",
			CurrencyName:   "USDC",
		},
		secret: []byte("secretKey"),
		logger: logging.NewNopLogger(),
	}
}

func call(t *testing.T, d *Dispatcher, tool string, args any, hdr Headers) *rpcResponse {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(callParams{Name: tool, Arguments: argsJSON})
	require.NoError(t, err)

	req := &rpcRequest{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tools/call", Params: params}
	return d.Handle(context.Background(), req, hdr)
}

func decodeToolResult(t *testing.T, resp *rpcResponse) (map[string]any, bool) {
	t.Helper()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	tr, ok := resp.Result.(*toolResult)
	require.True(t, ok)
	require.Len(t, tr.Content, 1)
	if tr.IsError {
		return map[string]any{"message": tr.Content[0].Text}, true
	}
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(tr.Content[0].Text), &payload))
	return payload, false
}

func TestHandleToolsList(t *testing.T) {
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, &fakeBudgetService{})

	resp := d.Handle(context.Background(), &rpcRequest{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tools/list"}, Headers{})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	tools, ok := result["tools"].([]toolDescriptor)
	require.True(t, ok)
	assert.Len(t, tools, 5)
}

func TestHandleUnknownMethod(t *testing.T) {
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, &fakeBudgetService{})

	resp := d.Handle(context.Background(), &rpcRequest{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "bogus"}, Headers{})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestHandleNotificationIsSilent(t *testing.T) {
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, &fakeBudgetService{})

	resp := d.Handle(context.Background(), &rpcRequest{JSONRPC: "2.0", Method: "notifications/initialized"}, Headers{})
	assert.Nil(t, resp)
}

func TestListArticles(t *testing.T) {
	price := decimal.RequireFromString("0.25")
	cat := &fakeCatalog{articles: []content.Article{
		{ID: "a1", Title: "First", Gated: true, Price: &price},
		{ID: "a2", Title: "Second", Gated: false},
	}}
	d := newTestDispatcher(cat, &fakeGate{}, &fakeBudgetService{})

	payload, isErr := decodeToolResult(t, call(t, d, "list_articles", map[string]any{}, Headers{}))
	require.False(t, isErr)
	assert.EqualValues(t, 2, payload["count"])

	articles := payload["articles"].([]any)
	first := articles[0].(map[string]any)
	assert.Equal(t, "0.25", first["price"])
	second := articles[1].(map[string]any)
	assert.Equal(t, "0", second["price"], "ungated articles list as free")
}

func TestPreviewArticleValidation(t *testing.T) {
	cat := &fakeCatalog{articles: []content.Article{{ID: "a1", Body: "Intro paragraph.\n\nSecond paragraph.\n\nThird."}}}
	d := newTestDispatcher(cat, &fakeGate{}, &fakeBudgetService{})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing id", map[string]any{}, "missing required argument: id"},
		{"traversal id", map[string]any{"id": "../etc/passwd"}, "article not found"},
		{"unknown id", map[string]any{"id": "nope"}, "article not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, isErr := decodeToolResult(t, call(t, d, "preview_article", tt.args, Headers{}))
			require.True(t, isErr)
			assert.Equal(t, tt.want, payload["message"])
		})
	}
}

func TestPreviewArticle(t *testing.T) {
	cat := &fakeCatalog{articles: []content.Article{
		{ID: "a1", Title: "First", Body: "Intro paragraph.\n\nSecond paragraph.\n\nThird paragraph."},
	}}
	d := newTestDispatcher(cat, &fakeGate{}, &fakeBudgetService{})

	payload, isErr := decodeToolResult(t, call(t, d, "preview_article", map[string]any{"id": "a1"}, Headers{}))
	require.False(t, isErr)
	preview := payload["preview"].(string)
	assert.Contains(t, preview, "Intro paragraph.")
	assert.Contains(t, preview, "Second paragraph.")
	assert.NotContains(t, preview, "Third paragraph.")
}

func TestGetArticleDelivered(t *testing.T) {
	article := &content.Article{ID: "a1", Title: "First", Body: "hello", HTML: "<p>hello</p>"}
	g := &fakeGate{result: &gate.Result{
		Outcome: gate.OutcomeDelivered,
		Article: article,
		Grant:   &gate.Grant{ArticleID: "a1", Charged: true, PaidFromBudget: true},
	}}
	d := newTestDispatcher(&fakeCatalog{}, g, &fakeBudgetService{})

	payload, isErr := decodeToolResult(t, call(t, d, "get_article", map[string]any{"id": "a1", "payer": "0xalice"}, Headers{}))
	require.False(t, isErr)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "hello", payload["body"])
	assert.Equal(t, "<p>hello</p>", payload["html"])
	assert.Equal(t, true, payload["paidFromBudget"])
	assert.Equal(t, "0xalice", g.lastCaller)
}

func TestGetArticleChallenge(t *testing.T) {
	g := &fakeGate{result: &gate.Result{
		Outcome: gate.OutcomeChallenge,
		Challenge: &gate.Challenge{
			ArticleID:      "a1",
			Amount:         decimal.RequireFromString("0.05"),
			CurrencySymbol: "$",
			CurrencyName:   "USDC",
			PayTo:          "0xseller",
			Network:        "base-sepolia",
			Nonce:          "nonce-1",
		},
	}}
	d := newTestDispatcher(&fakeCatalog{}, g, &fakeBudgetService{})

	payload, isErr := decodeToolResult(t, call(t, d, "get_article", map[string]any{"id": "a1"}, Headers{}))
	require.False(t, isErr)
	assert.Equal(t, "payment_required", payload["status"])
	challenge := payload["challenge"].(map[string]any)
	assert.Equal(t, "0.05", challenge["amount"])
	assert.Equal(t, "0xseller", challenge["payTo"])
	assert.NotEmpty(t, challenge["nonce"])
}

func TestGetArticleHeaderFallback(t *testing.T) {
	g := &fakeGate{result: &gate.Result{
		Outcome: gate.OutcomeDelivered,
		Article: &content.Article{ID: "a1"},
		Grant:   &gate.Grant{ArticleID: "a1"},
	}}
	d := newTestDispatcher(&fakeCatalog{}, g, &fakeBudgetService{})

	hdr := Headers{Payer: "0xheader", Payment: `{"id":"p-9","payer":"0xheader"}`}
	_, isErr := decodeToolResult(t, call(t, d, "get_article", map[string]any{"id": "a1"}, hdr))
	require.False(t, isErr)
	assert.Equal(t, "0xheader", g.lastCaller)
	require.NotNil(t, g.lastProof)
	assert.Equal(t, "p-9", g.lastProof.ID)
}

func TestGetArticleDeniedReasons(t *testing.T) {
	tests := []struct {
		reason gate.DenyReason
		want   string
	}{
		{gate.DenyNotFound, "article not found"},
		{gate.DenyPaymentRejected, "payment rejected"},
		{gate.DenyProofConsumed, "payment already used"},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			g := &fakeGate{result: &gate.Result{Outcome: gate.OutcomeDenied, Reason: tt.reason}}
			d := newTestDispatcher(&fakeCatalog{}, g, &fakeBudgetService{})

			payload, isErr := decodeToolResult(t, call(t, d, "get_article", map[string]any{"id": "a1"}, Headers{}))
			require.True(t, isErr)
			assert.Equal(t, tt.want, payload["message"])
		})
	}
}

func TestGetBalance(t *testing.T) {
	b := &fakeBudgetService{balances: map[string]decimal.Decimal{
		"0xalice": decimal.RequireFromString("1.50"),
	}}
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, b)

	payload, isErr := decodeToolResult(t, call(t, d, "get_balance", map[string]any{"owner": "0xalice"}, Headers{}))
	require.False(t, isErr)
	assert.Equal(t, "0xalice", payload["owner"])
	assert.Equal(t, "1.5", payload["balance"])
}

func TestConfirmDeposit(t *testing.T) {
	b := &fakeBudgetService{balances: map[string]decimal.Decimal{}}
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, b)

	args := map[string]any{"owner": "0xalice", "amount": "2.00", "payment": `{"id":"p-1","payer":"0xalice"}`}
	payload, isErr := decodeToolResult(t, call(t, d, "confirm_deposit", args, Headers{}))
	require.False(t, isErr)
	assert.Equal(t, "2", payload["balance"])
}

func TestConfirmDepositRejections(t *testing.T) {
	tests := []struct {
		name   string
		args   map[string]any
		depErr error
		want   string
	}{
		{"missing args", map[string]any{"owner": "0xalice"}, nil, "missing required arguments: owner, amount, payment"},
		{"bad amount", map[string]any{"owner": "0xalice", "amount": "-1", "payment": `{"id":"p-1"}`}, nil, "amount must be a positive decimal"},
		{"bad payload", map[string]any{"owner": "0xalice", "amount": "1", "payment": "{"}, nil, "malformed payment payload"},
		{"rejected proof", map[string]any{"owner": "0xalice", "amount": "1", "payment": `{"id":"p-1"}`}, fmt.Errorf("no: %w", common.ErrorInvalidProof), "payment rejected"},
		{"replayed proof", map[string]any{"owner": "0xalice", "amount": "1", "payment": `{"id":"p-1"}`}, fmt.Errorf("dup: %w", common.ErrorAlreadyConsumed), "payment already used"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBudgetService{balances: map[string]decimal.Decimal{}, depErr: tt.depErr}
			d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, b)

			payload, isErr := decodeToolResult(t, call(t, d, "confirm_deposit", tt.args, Headers{}))
			require.True(t, isErr)
			assert.Equal(t, tt.want, payload["message"])
		})
	}
}
