package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eter-store/eter-admin/internal/daemon"
	"github.com/eter-store/eter-admin/internal/logger"
)

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the eter-admin web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := readConfig(); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return logger.Init(cfg.Log) //nolint:wrapcheck
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer logger.Shutdown()

			d, err := daemon.New(commandContext(cmd), &cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return d.Start() //nolint:wrapcheck
		},
	}
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
