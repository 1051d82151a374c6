// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/colearnhub/colearnhub/internal/config"
)

var (
	configPath string // directory holding main.toml

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "colearnhub",
		Short: "CoLearnHub is the study group service of the CoLearnHub app",
		Long: `CoLearnHub serves the json api behind study groups: creating groups,
inviting users, answering invitations, study sessions and material ratings.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/",
		"directory of the main.toml configuration file")
}

// loadConfig reads the configuration selected by --config.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
