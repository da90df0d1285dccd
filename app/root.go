// Package app implements the eter-admin commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/eter-store/eter-admin/internal/config"
)

var (
	configPath string // Path to the configuration file

	cfg config.Config
	err error

	rootCmd = &cobra.Command{
		Use:   "eter-admin",
		Short: "eter-admin serves the Éter Store dashboard api",
		Long: `eter-admin serves the Éter Store dashboard api: store settings with an
audited change history and rollback, plus the academy leveling endpoints.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func readConfig() error {
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}
