package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/colearnhub/colearnhub/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the sql schema",
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := daemon.Migrate(&cfg); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Str("db", cfg.DB.Name).Msg("schema is up to date")

		return nil
	},
}
