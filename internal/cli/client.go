package cli

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

// rpcClient speaks the gateway's JSON-RPC tool surface.
type rpcClient struct {
	baseURL string
	payer   string
	client  *http.Client
}

func newClient() *rpcClient {
	return &rpcClient{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		payer:   getPayer(),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcEnvelope struct {
	Result *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// callTool invokes one tool and returns the text payload of its result.
func (c *rpcClient) callTool(ctx context.Context, name string, args map[string]any) (string, error) {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mcp", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.payer != "" {
		req.Header.Set(common.PayerHeaderName, c.payer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if env.Error != nil {
		return "", fmt.Errorf("server error %d: %s", env.Error.Code, env.Error.Message)
	}
	if env.Result == nil || len(env.Result.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}
	text := env.Result.Content[0].Text
	if env.Result.IsError {
		return "", fmt.Errorf("%s", text)
	}

	return text, nil
}
