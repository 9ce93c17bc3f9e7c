package core

import (
	"testing"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/utils"
	"github.com/stretchr/testify/assert"
)

func TestFilterRecords(t *testing.T) {
	records := []model.AttendanceRecord{
		completeRecord("ENG-001", "Alice Smith", "2024-03-15", 8),
		completeRecord("ENG-002", "Bob Jones", "2024-03-20", 7.5),
		completeRecord("OPS-001", "Carol White", "2023-03-10", 6),
		completeRecord("GONE-1", "Dave Old", "2024-02-01", 4),
	}
	employees := map[string]model.Employee{
		"ENG-001": {EmployeeID: "ENG-001", Department: "Engineering", Position: "Developer"},
		"ENG-002": {EmployeeID: "ENG-002", Department: "engineering", Position: "Tester"},
		"OPS-001": {EmployeeID: "OPS-001", Department: "Operations"},
	}
	now := at("2024-06-01", "12:00:00")

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria, newest first", Criteria{}, []string{"ENG-002", "ENG-001", "GONE-1", "OPS-001"}},
		{"id substring ignores case", Criteria{EmployeeID: "eng"}, []string{"ENG-002", "ENG-001"}},
		{"name substring", Criteria{EmployeeName: "SMITH"}, []string{"ENG-001"}},
		{"department exact ignoring case", Criteria{Department: "ENGINEERING"}, []string{"ENG-002", "ENG-001"}},
		{"department is not a substring match", Criteria{Department: "Engineer"}, nil},
		{"month and year", Criteria{Month: utils.Ptr(3), Year: utils.Ptr(2024)}, []string{"ENG-002", "ENG-001"}},
		{"month with other year", Criteria{Month: utils.Ptr(3), Year: utils.Ptr(2023)}, []string{"OPS-001"}},
		{"month defaults to current year", Criteria{Month: utils.Ptr(3)}, []string{"ENG-002", "ENG-001"}},
		{"year only", Criteria{Year: utils.Ptr(2023)}, []string{"OPS-001"}},
		{"combined", Criteria{EmployeeID: "ENG", Month: utils.Ptr(3), Year: utils.Ptr(2024), EmployeeName: "bob"}, []string{"ENG-002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRecords(records, employees, tt.criteria, now)
			ids := utils.Map(got, func(r EnrichedRecord) string { return r.EmployeeID })
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterRecordsEnrichesDeletedEmployees(t *testing.T) {
	records := []model.AttendanceRecord{completeRecord("GONE-1", "Dave Old", "2024-02-01", 4)}

	got := FilterRecords(records, map[string]model.Employee{}, Criteria{}, at("2024-06-01", "12:00:00"))

	assert.Len(t, got, 1)
	assert.Equal(t, "N/A", got[0].Department)
	assert.Equal(t, "N/A", got[0].Position)
}
