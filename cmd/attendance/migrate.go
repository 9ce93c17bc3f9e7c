package main

import (
	"fmt"
	"log/slog"

	"axiapac.com/attendance/attendance/app"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the attendance tables for relational storage drivers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		if !cfg.Storage.IsDatabase() {
			return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
		}

		stores, err := app.OpenStores(cmd.Context(), cfg.Storage, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.DB.Migrate(cmd.Context(), app.Models...); err != nil {
			return err
		}
		slog.Info("migration complete", "driver", cfg.Storage.Driver)
		return nil
	},
}
