package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysOnlySetFields(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "gw.json")
	body := `{
		"endpoint_addr": ":9500",
		"cache_ttl": "90s",
		"default_price": "0.05",
		"scan_concurrency": 4
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	parseJson(config)

	assert.Equal(t, ":9500", config.EndpointAddr)
	assert.Equal(t, 90*time.Second, config.CacheTTL)
	assert.Equal(t, "0.05", config.DefaultPrice)
	assert.Equal(t, 4, config.ScanConcurrency)

	// untouched fields keep their defaults
	assert.Equal(t, "fs", config.ContentSource)
	assert.Equal(t, "memory", config.LedgerBackend)
	assert.Equal(t, 15*time.Second, config.VerifyTimeout)
}

func TestParseJson_NoConfigFlag_IsNoop(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	parseJson(config)

	assert.Equal(t, ":8402", config.EndpointAddr)
}

func TestParseJson_InvalidJson_Panics(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	require.Panics(t, func() { parseJson(config) })
}
