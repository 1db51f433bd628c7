package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "deposit <owner> <amount> <payment>",
		Short: "Credit a verified payment to a wallet's pre-paid budget",
		Args:  cobra.ExactArgs(3),
		Run:   runDeposit,
	}

	RootCmd.AddCommand(cmd)
}

func runDeposit(cmd *cobra.Command, args []string) {
	text, err := newClient().callTool(cmd.Context(), "confirm_deposit", map[string]any{
		"owner":   args[0],
		"amount":  args[1],
		"payment": args[2],
	})
	if err != nil {
		exitErr("deposit", err)
	}
	printJSON(text)
}
