package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/infrastructure/communication"
	"axiapac.com/attendance/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Archive is satisfied by *filesystem.S3FileSystem.
type Archive interface {
	WriteFile(ctx context.Context, key string, data []byte, contentType string) error
}

// ReportIndex is satisfied by *filesystem.S3FileSystem.
type ReportIndex interface {
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// Delivery says where a monthly workbook goes. Nil members are skipped.
type Delivery struct {
	Archive Archive
	Mailer  communication.Mailer
}

type DeliveryResult struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Filename   string `json:"filename"`
	Employees  int    `json:"employees"`
	ArchiveKey string `json:"archiveKey,omitempty"`
	MessageID  string `json:"messageId,omitempty"`
	NoData     bool   `json:"noData,omitempty"`
}

// DeliverMonthlyReport renders the month's workbook, archives it, mails it to the
// report recipients and posts a summary. A month without records is not an error.
func (a *App) DeliverMonthlyReport(ctx context.Context, month, year int, d Delivery) (DeliveryResult, error) {
	result := DeliveryResult{Month: month, Year: year, Filename: core.ReportFilename(month, year)}
	period := fmt.Sprintf("%s %d", utils.MonthName(month), year)

	report, err := a.Tracker.MonthlyReport(month, year)
	if errors.Is(err, core.ErrNoDataForPeriod) {
		slog.InfoContext(ctx, "no attendance for period", "month", month, "year", year)
		result.NoData = true
		return result, a.Notifier.Info(ctx, fmt.Sprintf("No attendance recorded for %s, report skipped", period))
	}
	if err != nil {
		return result, err
	}
	result.Employees = len(report.Summaries)

	data, err := report.Render(a.Config.Office.Name, a.Tracker.Location())
	if err != nil {
		return result, err
	}

	if d.Archive != nil {
		key := path.Join(a.Config.Report.Prefix, strconv.Itoa(year), result.Filename)
		if err := d.Archive.WriteFile(ctx, key, data, xlsxContentType); err != nil {
			return result, fmt.Errorf("failed to archive report: %w", err)
		}
		result.ArchiveKey = key
	}

	if d.Mailer != nil && len(a.Config.Report.Recipients) > 0 {
		id, err := d.Mailer.Send(ctx, &communication.EmailInfo{
			From:    a.Config.Report.From,
			To:      a.Config.Report.Recipients,
			Subject: fmt.Sprintf("%s attendance report - %s", a.Config.Office.Name, period),
			Text:    fmt.Sprintf("Attached is the attendance report for %s covering %d employees.", period, result.Employees),
			Attachments: []communication.Attachment{
				{Filename: result.Filename, ContentType: xlsxContentType, Content: data},
			},
		})
		if err != nil {
			return result, err
		}
		result.MessageID = id
	}

	slog.InfoContext(ctx, "monthly report delivered",
		"file", result.Filename, "employees", result.Employees, "archive", result.ArchiveKey, "messageId", result.MessageID)
	if err := a.Notifier.Info(ctx, fmt.Sprintf("Attendance report for %s sent (%d employees)", period, result.Employees)); err != nil {
		slog.WarnContext(ctx, "failed to send notification", "error", err)
	}
	return result, nil
}

// ArchivedReports lists the workbooks DeliverMonthlyReport archived under prefix,
// newest year first. A zero year lists every year.
func ArchivedReports(ctx context.Context, index ReportIndex, prefix string, year int) ([]string, error) {
	dir := prefix
	if year != 0 {
		dir = path.Join(prefix, strconv.Itoa(year))
	}
	if dir != "" {
		dir += "/"
	}

	keys, err := index.ListFiles(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived reports: %w", err)
	}

	keys = utils.Filter(keys, func(key string) bool {
		return strings.HasSuffix(key, ".xlsx")
	})
	sort.SliceStable(keys, func(i, j int) bool {
		yi, yj := path.Base(path.Dir(keys[i])), path.Base(path.Dir(keys[j]))
		if yi != yj {
			return yi > yj
		}
		return keys[i] < keys[j]
	})
	return keys, nil
}
