package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"axiapac.com/attendance/attendance/model"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

type memoryStore[T any] struct {
	mu    sync.Mutex
	items []T
	saves int
	fail  bool
	// lossy counts saves that are written but still reported as failed
	lossy int
}

func (s *memoryStore[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T{}, s.items...), nil
}

func (s *memoryStore[T]) SaveAll(ctx context.Context, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.items = append([]T{}, items...)
	s.saves++
	if s.lossy > 0 {
		s.lossy--
		return errStoreDown
	}
	return nil
}

func (s *memoryStore[T]) failAfterWrite(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lossy = n
}

func (s *memoryStore[T]) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *memoryStore[T]) saved() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T{}, s.items...)
}

func at(date, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func hours(v float64) *float64 {
	return &v
}

func newTestLedger(t *testing.T, records ...model.AttendanceRecord) (*Ledger, *memoryStore[model.AttendanceRecord]) {
	t.Helper()
	s := &memoryStore[model.AttendanceRecord]{items: records}
	l, err := NewLedger(context.Background(), s)
	require.NoError(t, err)
	return l, s
}

func newTestDirectory(t *testing.T, employees ...model.Employee) (*Directory, *memoryStore[model.Employee]) {
	t.Helper()
	s := &memoryStore[model.Employee]{items: employees}
	d, err := NewDirectory(context.Background(), s, func() time.Time { return at("2024-03-01", "08:00:00") })
	require.NoError(t, err)
	return d, s
}

func completeRecord(employeeID, name, date string, workHours float64) model.AttendanceRecord {
	in := at(date, "09:00:00")
	out := in.Add(time.Duration(workHours * float64(time.Hour)))
	return model.AttendanceRecord{
		EmployeeID:   employeeID,
		EmployeeName: name,
		Date:         date,
		CheckIn:      &in,
		CheckOut:     &out,
		WorkHours:    hours(workHours),
	}
}
