package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/utils"
)

var employeeColumns = []string{"employeeid", "employeename", "email", "phone", "department", "position"}

// ParseEmployeeCSV reads rows with a header naming at least employeeId and employeeName.
// Column order and case do not matter.
func ParseEmployeeCSV(r io.Reader) ([]NewEmployee, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	position := map[string]int{}
	for i, name := range rows[0] {
		position[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range employeeColumns[:2] {
		if _, ok := position[required]; !ok {
			return nil, fmt.Errorf("csv header is missing %s", required)
		}
	}

	get := func(row []string, column string) string {
		i, ok := position[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	employees := make([]NewEmployee, 0, len(rows)-1)
	for _, row := range rows[1:] {
		employees = append(employees, NewEmployee{
			EmployeeID:   get(row, "employeeid"),
			EmployeeName: get(row, "employeename"),
			Email:        get(row, "email"),
			Phone:        get(row, "phone"),
			Department:   get(row, "department"),
			Position:     get(row, "position"),
		})
	}
	return employees, nil
}

type ImportResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Import creates every new, valid employee in a single save. Existing IDs and
// rows without an ID or name are skipped.
func (d *Directory) Import(ctx context.Context, in []NewEmployee) (ImportResult, error) {
	result := ImportResult{Created: []string{}, Skipped: []string{}}
	now := d.now().UTC()

	err := d.mutate(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		for _, e := range in {
			id, name := strings.TrimSpace(e.EmployeeID), strings.TrimSpace(e.EmployeeName)
			if id == "" || name == "" || d.indexOf(employees, id) >= 0 {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			employees = append(employees, model.Employee{
				EmployeeID:   id,
				EmployeeName: name,
				Email:        e.Email,
				Phone:        e.Phone,
				Department:   e.Department,
				Position:     e.Position,
				IsActive:     true,
				CreatedAt:    now,
			})
			result.Created = append(result.Created, id)
		}
		return employees, nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}
