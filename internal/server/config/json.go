package config

import (
	"encoding/json"
	"os"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/flagx"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "5m" and integer nanoseconds. After unmarshalling, non-empty fields
// are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	ContentSource         string         `json:"content_source"`
	ContentDir            string         `json:"content_dir"`
	CacheTTL              timex.Duration `json:"cache_ttl"`
	ScanConcurrency       int            `json:"scan_concurrency"`
	LedgerBackend         string         `json:"ledger_backend"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	DefaultPrice          string         `json:"default_price"`
	DefaultCurrencySymbol string         `json:"default_currency_symbol"`
	DefaultCurrencyName   string         `json:"default_currency_name"`
	PayTo                 string         `json:"pay_to"`
	Network               string         `json:"network"`
	FacilitatorURL        string         `json:"facilitator_url"`
	VerifyTimeout         timex.Duration `json:"verify_timeout"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Prefix              string         `json:"s3_prefix"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no JSON file is loaded. The file must be readable and
// contain valid JSON, otherwise the function panics. Zero-valued fields in
// the file leave the corresponding Config fields untouched.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.ContentSource, c.ContentSource)
	setString(&config.ContentDir, c.ContentDir)
	setString(&config.LedgerBackend, c.LedgerBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.DefaultPrice, c.DefaultPrice)
	setString(&config.DefaultCurrencySymbol, c.DefaultCurrencySymbol)
	setString(&config.DefaultCurrencyName, c.DefaultCurrencyName)
	setString(&config.PayTo, c.PayTo)
	setString(&config.Network, c.Network)
	setString(&config.FacilitatorURL, c.FacilitatorURL)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Prefix, c.S3Prefix)

	if c.CacheTTL.Duration != 0 {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.VerifyTimeout.Duration != 0 {
		config.VerifyTimeout = c.VerifyTimeout.Duration
	}
	if c.ScanConcurrency != 0 {
		config.ScanConcurrency = c.ScanConcurrency
	}
}
