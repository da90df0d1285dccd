package app

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eter-store/eter-admin/internal/gamification"
)

var (
	levelDefaults bool

	levelCmd = &cobra.Command{
		Use:   "level <points>",
		Short: "Print the academy level for an amount of points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid points %q: %w", args[0], err)
			}

			table := gamification.DefaultTable()

			if !levelDefaults {
				if err = readConfig(); err != nil {
					return err
				}

				if table, err = gamification.NewTable(cfg.Academy.Levels); err != nil {
					return err //nolint:wrapcheck
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(table.ComputeLevel(points)) //nolint:wrapcheck
		},
	}
)

func init() { //nolint: gochecknoinits
	levelCmd.Flags().BoolVar(&levelDefaults, "defaults", false, "Use the built-in level table instead of the config")

	rootCmd.AddCommand(levelCmd)
}
