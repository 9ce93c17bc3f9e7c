package main

import (
	"context"
	"fmt"
	"os"

	"axiapac.com/attendance/infrastructure/devops"
	"axiapac.com/attendance/infrastructure/logging"
	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var loadOptions devops.LoadOptions

var rootCmd = &cobra.Command{
	Use:           "attendance",
	Short:         "Office attendance tracker",
	Long:          `Check-in/check-out service restricted to office networks, with employee administration and monthly Excel reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig(ctx context.Context) (*devops.Config, error) {
	cfg, err := devops.Load(ctx, loadOptions)
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&loadOptions.ConfigFile, "config", "c", "", "config file (default ./config.yml)")
	rootCmd.PersistentFlags().StringVar(&loadOptions.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&loadOptions.SSMParameter, "ssm-parameter", "", "SSM parameter holding a YAML config overlay")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importEmployeesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listReportsCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(createTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
