package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/publist/publist/internal/config"
)

var (
	cfgFile string
	verbose bool

	// logger is built in PersistentPreRunE; commands may assume it is set.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "publist",
	Short: "Render a personal publication list",
	Long: `publist reads a JSON publication document, highlights your name in every
author list and renders the result either as a static site (selected and
full views) or as a live page served over HTTP with a toggle between the
two views. An MCP server exposes the same list to AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if cfg, err := config.Load(cfgFile); err == nil && cfg.Log.Level != "" {
			level = cfg.Log.Level
		}
		if verbose {
			level = "debug"
		}
		l, err := newLogger(level)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
