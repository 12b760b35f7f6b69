package cmd

import (
	"github.com/spf13/cobra"

	"github.com/publist/publist/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize publist configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the publication source, the name to highlight and the output directory, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
