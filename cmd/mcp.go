package cmd

import (
	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/mcp"
	"github.com/callsight/callsight/internal/store"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Callsight MCP server",
	Long:  `Launch an MCP server that allows AI agents to generate forecasts and review accuracy via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not write to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		engine := core.NewEngine(store.Manager, cfg)
		return mcp.StartMCPServer(rootCtx, cfg, engine, store.Manager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
