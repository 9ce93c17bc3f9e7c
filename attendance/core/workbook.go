package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/utils"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	headerFill      = "#1E3C72"
	totalsFill      = "#E9ECEF"
	completeColor   = "#28A745"
	incompleteColor = "#DC3545"
	firstDataRow    = 5
)

var (
	summaryHeaders = []any{"Employee ID", "Employee Name", "Department", "Position", "Days Present", "Total Hours", "Avg Hours/Day"}
	summaryWidths  = []float64{15, 25, 20, 20, 15, 15, 15}
	detailHeaders  = []any{"Date", "Day", "Check In", "Check Out", "Work Hours", "Status"}
	detailWidths   = []float64{15, 12, 20, 20, 12, 15}

	invalidSheetChars = strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")
)

type workbookStyles struct {
	title, subtitle, header, complete, incomplete, totals int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}, Alignment: center}); err != nil {
		return s, err
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	}); err != nil {
		return s, err
	}
	if s.complete, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: completeColor}}); err != nil {
		return s, err
	}
	if s.incomplete, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: incompleteColor}}); err != nil {
		return s, err
	}
	s.totals, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{totalsFill}, Pattern: 1},
	})
	return s, err
}

// SheetName strips characters a sheet name cannot hold and truncates it to the format limit.
func SheetName(employeeID string) string {
	name := strings.Trim(invalidSheetChars.Replace(employeeID), "' ")
	if utf8.RuneCountInString(name) > excelize.MaxSheetNameLength {
		name = string([]rune(name)[:excelize.MaxSheetNameLength])
	}
	if name == "" {
		name = "Employee"
	}
	return name
}

// uniqueSheetName appends ~2, ~3... when sanitized names collide. Sheet names compare case-insensitively.
func uniqueSheetName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > excelize.MaxSheetNameLength {
			runes = runes[:excelize.MaxSheetNameLength-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func setColumnWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func lastColumn(columns int) string {
	col, _ := excelize.ColumnNumberToName(columns)
	return col
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return notAvailable
	}
	return t.In(loc).Format("15:04:05")
}

func weekday(date string) string {
	t, err := utils.ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

// Workbook renders the report: a summary sheet followed by one sheet per employee.
// Times are shown in loc.
func (r *MonthlyReport) Workbook(title string, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := r.writeSummary(f, styles, title); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, detail := range r.Details {
		sheet := uniqueSheetName(SheetName(detail.EmployeeID), used)
		if err := writeDetail(f, styles, sheet, detail, loc); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet for %s: %w", detail.EmployeeID, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Render returns the workbook as xlsx bytes.
func (r *MonthlyReport) Render(title string, loc *time.Location) ([]byte, error) {
	f, err := r.Workbook(title, loc)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *MonthlyReport) writeSummary(f *excelize.File, styles workbookStyles, title string) error {
	last := lastColumn(len(summaryHeaders))

	f.SetCellValue(summarySheet, "A1", title)
	f.MergeCell(summarySheet, "A1", last+"1")
	f.SetCellStyle(summarySheet, "A1", last+"1", styles.title)

	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Attendance Summary - %s %d", utils.MonthName(r.Month), r.Year))
	f.MergeCell(summarySheet, "A2", last+"2")
	f.SetCellStyle(summarySheet, "A2", last+"2", styles.subtitle)

	if err := f.SetSheetRow(summarySheet, "A4", &summaryHeaders); err != nil {
		return err
	}
	f.SetCellStyle(summarySheet, "A4", last+"4", styles.header)

	for i, s := range r.Summaries {
		row := []any{s.EmployeeID, s.EmployeeName, s.Department, s.Position, s.DaysPresent, utils.FormatHours(s.TotalHours), utils.FormatHours(s.AvgHours)}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", firstDataRow+i), &row); err != nil {
			return err
		}
	}

	return setColumnWidths(f, summarySheet, summaryWidths)
}

func writeDetail(f *excelize.File, styles workbookStyles, sheet string, detail EmployeeDetail, loc *time.Location) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	last := lastColumn(len(detailHeaders))

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Employee: %s (%s)", detail.EmployeeName, detail.EmployeeID))
	f.MergeCell(sheet, "A1", last+"1")
	f.SetCellStyle(sheet, "A1", last+"1", styles.subtitle)

	f.SetCellValue(sheet, "A2", fmt.Sprintf("Department: %s | Position: %s", detail.Department, detail.Position))
	f.MergeCell(sheet, "A2", last+"2")
	f.SetCellStyle(sheet, "A2", last+"2", styles.subtitle)

	if err := f.SetSheetRow(sheet, "A4", &detailHeaders); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A4", last+"4", styles.header)

	row := firstDataRow
	for _, rec := range detail.Records {
		values := detailRow(rec, loc)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		status := fmt.Sprintf("F%d", row)
		if rec.HasCheckedOut() {
			f.SetCellStyle(sheet, status, status, styles.complete)
		} else {
			f.SetCellStyle(sheet, status, status, styles.incomplete)
		}
		row++
	}

	// one blank row before the totals
	row++
	totals := []any{"TOTAL", "", "", "", utils.FormatHours(detail.TotalHours), fmt.Sprintf("Avg: %sh", utils.FormatHours(detail.AvgHours))}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), styles.totals)

	return setColumnWidths(f, sheet, detailWidths)
}

func detailRow(r model.AttendanceRecord, loc *time.Location) []any {
	status := utils.FormatBoolean(r.HasCheckedOut(), "Complete", "Incomplete")
	workHours := notAvailable
	if r.WorkHours != nil {
		workHours = utils.FormatHours(*r.WorkHours)
	}
	return []any{r.Date, weekday(r.Date), formatTime(r.CheckIn, loc), formatTime(r.CheckOut, loc), workHours, status}
}
