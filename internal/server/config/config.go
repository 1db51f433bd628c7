// Package config handles configuration for the gateway server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the articles gateway.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP/JSON-RPC endpoint.
//   - ContentSource: "fs" (local directory) or "s3" (bucket-backed).
//   - ContentDir: root directory with markdown articles (fs source).
//   - CacheTTL: how long a content scan is reused before rescanning.
//   - ScanConcurrency: max files parsed in parallel during a scan.
//   - LedgerBackend: "memory", "sqlite" or "postgres".
//   - DatabaseDSN: PostgreSQL DSN (pgx) or SQLite file path.
//   - SecretKey: HMAC secret for operator-signed identity tokens (HS256).
//   - DefaultPrice / DefaultCurrencySymbol / DefaultCurrencyName: applied to
//     articles that do not override pricing in their front matter.
//   - PayTo: destination wallet address for payment challenges.
//   - Network: payment network identifier (e.g. "base-sepolia").
//   - FacilitatorURL: x402 facilitator used to verify payment proofs.
//   - VerifyTimeout: upper bound for a single proof verification call.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3RootUser / S3RootPassword /
//     S3Prefix: object storage settings for the s3 content source.
type Config struct {
	EndpointAddr          string
	ContentSource         string
	ContentDir            string
	CacheTTL              time.Duration
	ScanConcurrency       int
	LedgerBackend         string
	DatabaseDSN           string
	SecretKey             string
	DefaultPrice          string
	DefaultCurrencySymbol string
	DefaultCurrencyName   string
	PayTo                 string
	Network               string
	FacilitatorURL        string
	VerifyTimeout         time.Duration
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	S3RootUser            string
	S3RootPassword        string
	S3Prefix              string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8402"
	c.ContentSource = "fs"
	c.ContentDir = "./articles"
	c.CacheTTL = 5 * time.Minute
	c.ScanConcurrency = 8
	c.LedgerBackend = "memory"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.DefaultPrice = "0.01"
	c.DefaultCurrencySymbol = "$"
	c.DefaultCurrencyName = "USDC"
	c.PayTo = ""
	c.Network = "base-sepolia"
	c.FacilitatorURL = "https://x402.org/facilitator"
	c.VerifyTimeout = 15 * time.Second
	c.S3Bucket = "articles"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Prefix = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
