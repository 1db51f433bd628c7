package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

// FacilitatorClient verifies payment proofs against a remote x402
// facilitator over HTTP. Every call is bounded by the configured timeout on
// top of the caller's own deadline.
type FacilitatorClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewFacilitatorClient(baseURL string, timeout time.Duration) *FacilitatorClient {
	return &FacilitatorClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

type verifyRequest struct {
	Proof        string `json:"proof"`
	Payer        string `json:"payer"`
	PayTo        string `json:"payTo"`
	Network      string `json:"network"`
	Amount       string `json:"amount"`
	CurrencyName string `json:"currencyName"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

func (f *FacilitatorClient) Verify(ctx context.Context, proof Proof, expect Expectation) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	body, err := json.Marshal(verifyRequest{
		Proof:        proof.Payload,
		Payer:        proof.Payer,
		PayTo:        expect.Destination,
		Network:      expect.Network,
		Amount:       expect.Amount.String(),
		CurrencyName: expect.CurrencyName,
	})
	if err != nil {
		return fmt.Errorf("encoding verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling facilitator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: facilitator status %d", common.ErrorPaymentRejected, resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding facilitator response: %w", err)
	}
	if !out.Valid {
		return fmt.Errorf("%w: %s", common.ErrorPaymentRejected, out.Reason)
	}

	return nil
}
