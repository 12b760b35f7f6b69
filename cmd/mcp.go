package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/publist/publist/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the publication list and view state as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, loads, err := openLoadLog(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctrl := newController(cfg, loads)
		snap := ctrl.Load(cmd.Context())
		if snap.Failed() {
			// Keep serving; the tools report the failure.
			fmt.Fprintf(os.Stderr, "Warning: could not load publications from %s: %v\n", ctrl.Source(), snap.LoadErr)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "publist MCP server started on stdio (source=%s, publications=%d)\n", ctrl.Source(), len(snap.Publications))

		srv := mcpserver.NewServer(ctrl, cfg.HighlightName, loads)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
