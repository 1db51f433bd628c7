package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Show the free preview of an article",
		Args:  cobra.ExactArgs(1),
		Run:   runPreview,
	}

	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	text, err := newClient().callTool(cmd.Context(), "preview_article", map[string]any{"id": args[0]})
	if err != nil {
		exitErr("preview", err)
	}
	printJSON(text)
}
