package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/xmlgrep/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the query engine as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.Serve(mcpserver.New(eng, cfg.Strategy))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
