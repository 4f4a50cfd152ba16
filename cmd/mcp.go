package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bob-stewart/HardShell/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets coding agents invoke the gate natively. Configure with:

  {
    "mcpServers": {
      "hardshell": { "command": "hardshell", "args": ["mcp"] }
    }
  }

Available tools: hardshell_crosscheck, hardshell_classify,
hardshell_history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := getEngine()
		if err != nil {
			return err
		}

		// Ledger is optional; the history tool reports empty without it.
		ledger, err := getLedger()
		if err != nil {
			ledger = nil
		}

		srv := mcp.NewServer(eng, ledger)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
