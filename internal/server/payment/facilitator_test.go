package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

func expectation() Expectation {
	return Expectation{
		Destination:  "0xdest",
		Network:      "base-sepolia",
		Amount:       decimal.RequireFromString("0.05"),
		CurrencyName: "USDC",
	}
}

func TestFacilitatorClient_Accept(t *testing.T) {
	var got verifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(verifyResponse{Valid: true})
	}))
	defer srv.Close()

	c := NewFacilitatorClient(srv.URL, time.Second)
	err := c.Verify(context.Background(), Proof{ID: "p1", Payer: "0xpayer", Payload: "signed-tx"}, expectation())
	require.NoError(t, err)

	assert.Equal(t, "signed-tx", got.Proof)
	assert.Equal(t, "0xpayer", got.Payer)
	assert.Equal(t, "0xdest", got.PayTo)
	assert.Equal(t, "base-sepolia", got.Network)
	assert.Equal(t, "0.05", got.Amount)
	assert.Equal(t, "USDC", got.CurrencyName)
}

func TestFacilitatorClient_Reject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(verifyResponse{Valid: false, Reason: "amount mismatch"})
	}))
	defer srv.Close()

	c := NewFacilitatorClient(srv.URL, time.Second)
	err := c.Verify(context.Background(), Proof{ID: "p1"}, expectation())
	assert.ErrorIs(t, err, common.ErrorPaymentRejected)
}

func TestFacilitatorClient_HTTPErrorIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewFacilitatorClient(srv.URL, time.Second)
	err := c.Verify(context.Background(), Proof{ID: "p1"}, expectation())
	assert.ErrorIs(t, err, common.ErrorPaymentRejected)
}

func TestFacilitatorClient_RespectsCallerCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewFacilitatorClient(srv.URL, time.Minute)
	err := c.Verify(ctx, Proof{ID: "p1"}, expectation())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorPaymentRejected)
}
