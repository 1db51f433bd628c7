package config

import (
	"flag"
	"os"
	"time"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8402")
//	-o string   content source: "fs" or "s3"
//	-r string   content root directory (fs source)
//	-t int      content cache TTL, minutes
//	-l string   ledger backend: "memory", "sqlite" or "postgres"
//	-d string   database DSN (pgx DSN or SQLite file path)
//	-s string   HMAC secret for identity tokens
//	-p string   default article price (decimal string)
//	-w string   destination wallet address for challenges
//	-n string   payment network identifier
//	-f string   facilitator base URL
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   S3 root user
//	-k string   S3 root password
//	-x string   S3 key prefix
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The TTL flag
// is accepted as an integer in minutes and converted to a time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-o", "-r", "-t", "-l", "-d", "-s", "-p", "-w", "-n", "-f",
		"-b", "-g", "-e", "-u", "-k", "-x",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.ContentSource, "o", config.ContentSource, "content source (fs or s3)")
	fs.StringVar(&config.ContentDir, "r", config.ContentDir, "content root directory")
	fs.StringVar(&config.LedgerBackend, "l", config.LedgerBackend, "ledger backend (memory, sqlite, postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.DefaultPrice, "p", config.DefaultPrice, "default article price")
	fs.StringVar(&config.PayTo, "w", config.PayTo, "destination wallet address")
	fs.StringVar(&config.Network, "n", config.Network, "payment network identifier")
	fs.StringVar(&config.FacilitatorURL, "f", config.FacilitatorURL, "facilitator base URL")

	cacheTTL := fs.Int("t", int(config.CacheTTL.Minutes()), "content cache TTL (in minutes)")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "k", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Prefix, "x", config.S3Prefix, "S3 key prefix")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CacheTTL = time.Duration(*cacheTTL) * time.Minute
}
