package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/eter-store/eter-admin/internal/daemon"
	"github.com/eter-store/eter-admin/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed defaults",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := readConfig(); err != nil {
			return err
		}

		return logger.Init(cfg.Log) //nolint:wrapcheck
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		defer logger.Shutdown()

		if err := daemon.Migrate(commandContext(cmd), &cfg); err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}
