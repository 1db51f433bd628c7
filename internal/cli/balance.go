package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "balance <owner>",
		Short: "Show the remaining pre-paid budget for a wallet",
		Args:  cobra.ExactArgs(1),
		Run:   runBalance,
	}

	RootCmd.AddCommand(cmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	text, err := newClient().callTool(cmd.Context(), "get_balance", map[string]any{"owner": args[0]})
	if err != nil {
		exitErr("balance", err)
	}
	printJSON(text)
}
