package core

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/utils"
)

type EmployeeSummary struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Department   string  `json:"department"`
	Position     string  `json:"position"`
	DaysPresent  int     `json:"daysPresent"`
	TotalHours   float64 `json:"totalHours"`
	AvgHours     float64 `json:"avgHours"`
}

// EmployeeDetail holds one employee's records for the month, oldest first.
type EmployeeDetail struct {
	EmployeeSummary
	Records []model.AttendanceRecord `json:"records"`
}

type MonthlyReport struct {
	Month     int               `json:"month"`
	Year      int               `json:"year"`
	Summaries []EmployeeSummary `json:"summaries"`
	Details   []EmployeeDetail  `json:"-"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return ErrInvalidPeriod
	}
	return nil
}

// BuildMonthlyReport groups the month's records by employee. Summaries follow the
// directory order, with employees no longer in the directory last in the order they
// first appear. Details are ordered by employee ID.
func BuildMonthlyReport(records []model.AttendanceRecord, directory []model.Employee, month, year int) (*MonthlyReport, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	inMonth := utils.Filter(records, func(r model.AttendanceRecord) bool {
		return inPeriod(r.Date, month, year)
	})
	if len(inMonth) == 0 {
		return nil, ErrNoDataForPeriod
	}

	slices.SortStableFunc(inMonth, func(a, b model.AttendanceRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	groups := utils.GroupBy(inMonth, func(r model.AttendanceRecord) string { return r.EmployeeID })

	employees := make(map[string]model.Employee, len(directory))
	var order []string
	for _, e := range directory {
		employees[e.EmployeeID] = e
		if _, ok := groups[e.EmployeeID]; ok {
			order = append(order, e.EmployeeID)
		}
	}
	for _, id := range utils.OrderedKeys(records, func(r model.AttendanceRecord) string { return r.EmployeeID }) {
		if _, known := employees[id]; !known {
			if _, ok := groups[id]; ok {
				order = append(order, id)
			}
		}
	}

	report := &MonthlyReport{Month: month, Year: year}
	details := make(map[string]EmployeeDetail, len(groups))
	for _, id := range order {
		detail := summarize(id, groups[id], employees)
		details[id] = detail
		report.Summaries = append(report.Summaries, detail.EmployeeSummary)
	}

	ids := append([]string(nil), order...)
	slices.Sort(ids)
	for _, id := range ids {
		report.Details = append(report.Details, details[id])
	}
	return report, nil
}

func summarize(employeeID string, records []model.AttendanceRecord, employees map[string]model.Employee) EmployeeDetail {
	summary := EmployeeSummary{
		EmployeeID:   employeeID,
		EmployeeName: records[0].EmployeeName,
		Department:   notAvailable,
		Position:     notAvailable,
		DaysPresent:  len(records),
	}
	if e, ok := employees[employeeID]; ok {
		summary.Department = e.Department
		summary.Position = e.Position
	}

	total := 0.0
	for _, r := range records {
		if r.WorkHours != nil {
			total += *r.WorkHours
		}
	}
	summary.TotalHours = round2(total)
	if summary.DaysPresent > 0 {
		summary.AvgHours = round2(total / float64(summary.DaysPresent))
	}

	return EmployeeDetail{EmployeeSummary: summary, Records: records}
}

func ReportFilename(month, year int) string {
	return fmt.Sprintf("Attendance_%s_%d.xlsx", utils.MonthName(month), year)
}
