package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd",
		"-a", "127.0.0.1:9090", "-o", "s3", "-r", "/srv/articles", "-t", "10",
		"-l", "postgres", "-d", "postgres://gw", "-s", "secret",
		"-p", "0.25", "-w", "0xABC", "-n", "base", "-f", "http://fac",
		"-b", "bucket", "-g", "us-west-1", "-e", "http://minio", "-u", "user", "-k", "pass", "-x", "posts/",
	}

	config := &Config{}
	require.NotPanics(t, func() { parseFlags(config) })

	assert.Equal(t, "127.0.0.1:9090", config.EndpointAddr)
	assert.Equal(t, "s3", config.ContentSource)
	assert.Equal(t, "/srv/articles", config.ContentDir)
	assert.Equal(t, 10*time.Minute, config.CacheTTL)
	assert.Equal(t, "postgres", config.LedgerBackend)
	assert.Equal(t, "postgres://gw", config.DatabaseDSN)
	assert.Equal(t, "secret", config.SecretKey)
	assert.Equal(t, "0.25", config.DefaultPrice)
	assert.Equal(t, "0xABC", config.PayTo)
	assert.Equal(t, "base", config.Network)
	assert.Equal(t, "http://fac", config.FacilitatorURL)
	assert.Equal(t, "bucket", config.S3Bucket)
	assert.Equal(t, "us-west-1", config.S3Region)
	assert.Equal(t, "http://minio", config.S3BaseEndpoint)
	assert.Equal(t, "user", config.S3RootUser)
	assert.Equal(t, "pass", config.S3RootPassword)
	assert.Equal(t, "posts/", config.S3Prefix)
}

func TestParseFlags_IgnoresUnknownFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-z", "junk", "-a", ":9000"}

	config := &Config{}
	require.NotPanics(t, func() { parseFlags(config) })
	assert.Equal(t, ":9000", config.EndpointAddr)
}
