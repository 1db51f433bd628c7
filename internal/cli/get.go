package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch the full article, paying from budget or with an attached payment",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().String("payment", "", "Payment proof payload for direct payment")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	payload, _ := cmd.Flags().GetString("payment")

	toolArgs := map[string]any{"id": args[0]}
	if payload != "" {
		toolArgs["payment"] = payload
	}

	text, err := newClient().callTool(cmd.Context(), "get_article", toolArgs)
	if err != nil {
		exitErr("get", err)
	}
	printJSON(text)
}
