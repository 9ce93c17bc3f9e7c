package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"axiapac.com/attendance/attendance/app"
	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/utils"
	"github.com/spf13/cobra"
)

var (
	exportMonth int
	exportYear  int
	exportDir   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a monthly attendance workbook (defaults to last month)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		month, year := exportMonth, exportYear
		if month == 0 && year == 0 {
			month, year = utils.PreviousMonth(time.Now().In(cfg.Location()))
		}
		if err := core.ValidatePeriod(month, year); err != nil {
			return fmt.Errorf("%w: month %d, year %d", err, month, year)
		}

		a, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Tracker.MonthlyReport(month, year)
		if err != nil {
			return err
		}
		data, err := report.Render(cfg.Office.Name, a.Tracker.Location())
		if err != nil {
			return err
		}

		target := filepath.Join(exportDir, core.ReportFilename(month, year))
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d employees)\n", target, len(report.Summaries))
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVarP(&exportMonth, "month", "m", 0, "month 1-12")
	exportCmd.Flags().IntVarP(&exportYear, "year", "y", 0, "four digit year")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "output directory")
}
