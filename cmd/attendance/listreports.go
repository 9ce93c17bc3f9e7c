package main

import (
	"fmt"

	"axiapac.com/attendance/attendance/app"
	"axiapac.com/attendance/infrastructure/filesystem"
	"github.com/spf13/cobra"
)

var listReportsYear int

var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "List monthly workbooks archived in the report bucket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.Report.Bucket == "" {
			return fmt.Errorf("report.bucket is not configured")
		}

		fs, err := filesystem.NewS3FileSystem(cmd.Context(), cfg.Report.Bucket)
		if err != nil {
			return err
		}
		keys, err := app.ArchivedReports(cmd.Context(), fs, cfg.Report.Prefix, listReportsYear)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

func init() {
	listReportsCmd.Flags().IntVarP(&listReportsYear, "year", "y", 0, "only list this year")
}
