package core

import (
	"slices"
	"strings"
	"time"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/utils"
)

const notAvailable = "N/A"

// Criteria are independent optional predicates. Empty strings and nil periods match everything.
type Criteria struct {
	EmployeeID   string `json:"employeeId,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
	Department   string `json:"department,omitempty"`
	Month        *int   `json:"month,omitempty"`
	Year         *int   `json:"year,omitempty"`
}

// EnrichedRecord is a record with the employee's current department and position.
type EnrichedRecord struct {
	model.AttendanceRecord
	Department string `json:"department"`
	Position   string `json:"position"`
}

func enrich(r model.AttendanceRecord, employees map[string]model.Employee) EnrichedRecord {
	e, ok := employees[r.EmployeeID]
	if !ok {
		return EnrichedRecord{AttendanceRecord: r, Department: notAvailable, Position: notAvailable}
	}
	return EnrichedRecord{AttendanceRecord: r, Department: e.Department, Position: e.Position}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// inPeriod matches a YYYY-MM-DD date against month and year.
func inPeriod(date string, month, year int) bool {
	t, err := utils.ParseDate(date)
	if err != nil {
		return false
	}
	if month > 0 && int(t.Month()) != month {
		return false
	}
	if year > 0 && t.Year() != year {
		return false
	}
	return true
}

// FilterRecords applies c to records, newest date first. A month without a year
// means the year of now.
func FilterRecords(records []model.AttendanceRecord, employees map[string]model.Employee, c Criteria, now time.Time) []EnrichedRecord {
	employeeID := strings.TrimSpace(c.EmployeeID)
	employeeName := strings.TrimSpace(c.EmployeeName)
	department := strings.TrimSpace(c.Department)

	month, year := 0, 0
	if c.Month != nil {
		month = *c.Month
		year = now.Year()
	}
	if c.Year != nil {
		year = *c.Year
	}

	out := []EnrichedRecord{}
	for _, r := range records {
		if employeeID != "" && !containsFold(r.EmployeeID, employeeID) {
			continue
		}
		if employeeName != "" && !containsFold(r.EmployeeName, employeeName) {
			continue
		}
		e := enrich(r, employees)
		if department != "" && !strings.EqualFold(e.Department, department) {
			continue
		}
		if (month > 0 || year > 0) && !inPeriod(r.Date, month, year) {
			continue
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b EnrichedRecord) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}
