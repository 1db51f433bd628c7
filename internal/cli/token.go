package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/auth"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func init() {
	cmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Mint a signed identity token for a wallet address",
		Args:  cobra.ExactArgs(1),
		Run:   runToken,
	}

	cmd.Flags().Duration("ttl", 24*time.Hour, "Token validity duration")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) {
	address := args[0]
	if !auth.ValidAddress(address) {
		exitErr("token", fmt.Errorf("invalid wallet address %q", address))
	}

	ttl, _ := cmd.Flags().GetDuration("ttl")

	fmt.Fprint(os.Stderr, "Signing secret: ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		exitErr("token", err)
	}

	token, err := auth.GenerateToken(address, secret, ttl)
	if err != nil {
		exitErr("token", err)
	}

	fmt.Println(token)
}
