package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"axiapac.com/attendance/attendance/app"
	"axiapac.com/attendance/infrastructure/communication"
	"axiapac.com/attendance/infrastructure/devops"
	"axiapac.com/attendance/infrastructure/filesystem"
	"axiapac.com/attendance/infrastructure/logging"
	"axiapac.com/attendance/utils"
	"github.com/aws/aws-lambda-go/lambda"

	_ "time/tzdata"
)

// ReportEvent selects the period. Zero values mean the month before now,
// which is what the monthly schedule sends.
type ReportEvent struct {
	Month  int  `json:"month"`
	Year   int  `json:"year"`
	DryRun bool `json:"dryRun"`
}

func (e ReportEvent) period(now time.Time) (int, int) {
	if e.Month == 0 && e.Year == 0 {
		return utils.PreviousMonth(now)
	}
	return e.Month, e.Year
}

func loadOptions() devops.LoadOptions {
	return devops.LoadOptions{
		ConfigFile:   os.Getenv("ATTENDANCE_CONFIG_FILE"),
		SSMParameter: os.Getenv("ATTENDANCE_SSM_PARAMETER"),
	}
}

func Run(ctx context.Context, event ReportEvent) (app.DeliveryResult, error) {
	cfg, err := devops.Load(ctx, loadOptions())
	if err != nil {
		return app.DeliveryResult{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(cfg.Log.Level, "json")

	month, year := event.period(time.Now().In(cfg.Location()))
	slog.InfoContext(ctx, "building monthly report", "month", month, "year", year, "dryRun", event.DryRun)

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return app.DeliveryResult{}, err
	}
	defer a.Close()

	var delivery app.Delivery
	if !event.DryRun {
		delivery, err = newDelivery(ctx, cfg.Report)
		if err != nil {
			return app.DeliveryResult{}, err
		}
	}

	result, err := a.DeliverMonthlyReport(ctx, month, year, delivery)
	if err != nil {
		if notifyErr := a.Notifier.Error(ctx, fmt.Sprintf("Monthly attendance report for %d/%d failed: %v", month, year, err)); notifyErr != nil {
			slog.WarnContext(ctx, "failed to send notification", "error", notifyErr)
		}
		return result, err
	}
	return result, nil
}

func newDelivery(ctx context.Context, cfg devops.ReportConfig) (app.Delivery, error) {
	var delivery app.Delivery
	if cfg.Bucket != "" {
		archive, err := filesystem.NewS3FileSystem(ctx, cfg.Bucket)
		if err != nil {
			return delivery, err
		}
		delivery.Archive = archive
	}
	if cfg.From != "" && len(cfg.Recipients) > 0 {
		mailer, err := communication.NewSESMailer(ctx)
		if err != nil {
			return delivery, err
		}
		delivery.Mailer = mailer
	}
	return delivery, nil
}

func HandleRequest(ctx context.Context, event ReportEvent) (app.DeliveryResult, error) {
	return Run(ctx, event)
}

func main() {
	// outside Lambda, run once for the period given on the command line
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") == "" {
		var event ReportEvent
		flag.IntVar(&event.Month, "month", 0, "month 1-12 (default last month)")
		flag.IntVar(&event.Year, "year", 0, "year (default last month's year)")
		flag.BoolVar(&event.DryRun, "dry-run", false, "build the report without archiving or emailing it")
		flag.Parse()

		result, err := Run(context.Background(), event)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	lambda.Start(HandleRequest)
}
