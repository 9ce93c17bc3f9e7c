package core

import (
	"context"
	"strings"
	"testing"

	"axiapac.com/attendance/attendance/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmployeeCSV(t *testing.T) {
	csv := "Department,employeeName,EmployeeId\nFinance, Alice ,E001\nOps,Bob,E002\n"

	employees, err := ParseEmployeeCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []NewEmployee{
		{EmployeeID: "E001", EmployeeName: "Alice", Department: "Finance"},
		{EmployeeID: "E002", EmployeeName: "Bob", Department: "Ops"},
	}, employees)

	_, err = ParseEmployeeCSV(strings.NewReader("name,department\nAlice,Finance\n"))
	assert.Error(t, err)

	_, err = ParseEmployeeCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDirectoryImport(t *testing.T) {
	dir, s := newTestDirectory(t, model.Employee{EmployeeID: "E001", EmployeeName: "Existing"})

	result, err := dir.Import(context.Background(), []NewEmployee{
		{EmployeeID: "E001", EmployeeName: "Alice"},
		{EmployeeID: "E002", EmployeeName: "Bob"},
		{EmployeeID: "E003"},
		{EmployeeID: "E002", EmployeeName: "Bob again"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"E002"}, result.Created)
	assert.Equal(t, []string{"E001", "E003", "E002"}, result.Skipped)
	assert.Len(t, s.saved(), 2)

	bob, ok := dir.Get("E002")
	require.True(t, ok)
	assert.True(t, bob.IsActive)
}
