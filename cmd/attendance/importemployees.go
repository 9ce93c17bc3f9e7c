package main

import (
	"fmt"
	"os"

	"axiapac.com/attendance/attendance/app"
	"axiapac.com/attendance/attendance/core"
	"github.com/spf13/cobra"
)

var importEmployeesCmd = &cobra.Command{
	Use:   "import-employees <file.csv>",
	Short: "Add employees from a CSV with columns employeeId,employeeName,email,phone,department,position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		rows, err := core.ParseEmployeeCSV(file)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		a, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Directory.Import(cmd.Context(), rows)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(result.Created), len(result.Skipped))
		for _, id := range result.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "  skipped %q\n", id)
		}
		return nil
	},
}
