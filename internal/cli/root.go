// Package cli implements the operator CLI for the articles gateway.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	payerFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "articles",
	Short: "Client for the paywalled articles gateway",
	Long:  "Talks JSON-RPC to a running gateway: browse the catalog, fetch articles, manage pre-paid budgets.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8402", "Gateway base URL")
	RootCmd.PersistentFlags().StringVarP(&payerFlag, "payer", "p", "", "Caller identity: wallet address or signed token (default: $ARTICLES_PAYER)")
}

func getPayer() string {
	if payerFlag != "" {
		return payerFlag
	}
	return os.Getenv("ARTICLES_PAYER")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// printJSON pretty-prints a tool payload, falling back to raw text when it
// is not a JSON document.
func printJSON(text string) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		fmt.Println(text)
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
