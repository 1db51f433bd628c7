package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available articles",
		Run:   runList,
	}

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	text, err := newClient().callTool(cmd.Context(), "list_articles", map[string]any{})
	if err != nil {
		exitErr("list", err)
	}
	printJSON(text)
}
