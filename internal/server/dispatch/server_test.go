package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/gate"
)

func deliveredFixture() *gate.Result {
	return &gate.Result{
		Outcome: gate.OutcomeDelivered,
		Article: &content.Article{ID: "a1"},
		Grant:   &gate.Grant{ArticleID: "a1"},
	}
}

func newTestServer() *Server {
	d := newTestDispatcher(&fakeCatalog{}, &fakeGate{}, &fakeBudgetService{})
	return NewServer(":0", d, logging.NewNopLogger())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRPCRejectsGet(t *testing.T) {
	srv := newTestServer()
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/mcp")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRPCParseError(t *testing.T) {
	srv := newTestServer()
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Error)
	assert.Equal(t, codeParseError, out.Error.Code)
}

func TestRPCToolsListOverHTTP(t *testing.T) {
	srv := newTestServer()
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Result struct {
			Tools []toolDescriptor `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Result.Tools, 5)

	names := make([]string, 0, len(out.Result.Tools))
	for _, tool := range out.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "get_article")
	assert.Contains(t, names, "confirm_deposit")
}

func TestRPCHeadersReachDispatcher(t *testing.T) {
	g := &fakeGate{result: deliveredFixture()}
	d := newTestDispatcher(&fakeCatalog{}, g, &fakeBudgetService{})
	srv := NewServer(":0", d, logging.NewNopLogger())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_article","arguments":{"id":"a1"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/mcp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payer", "0xheader")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0xheader", g.lastCaller)
}
