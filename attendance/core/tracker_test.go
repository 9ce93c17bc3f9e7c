package core

import (
	"context"
	"testing"
	"time"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackerFixture struct {
	tracker   *Tracker
	ledger    *Ledger
	directory *Directory
	now       time.Time
}

func (f *trackerFixture) clock() time.Time {
	return f.now
}

func newTrackerFixture(t *testing.T, maxAttempts int) *trackerFixture {
	t.Helper()
	policy, err := security.NewIPPolicy([]string{"10.0.0.0/24"}, false)
	require.NoError(t, err)

	f := &trackerFixture{now: at("2024-03-15", "09:00:00")}
	limiter := security.NewRateLimiter(maxAttempts, time.Hour, security.WithClock(f.clock))
	f.ledger, _ = newTestLedger(t)
	f.directory, _ = newTestDirectory(t,
		model.Employee{EmployeeID: "E1", EmployeeName: "Alice", IsActive: true},
		model.Employee{EmployeeID: "E2", EmployeeName: "Bob", IsActive: false},
	)
	f.tracker = NewTracker(f.ledger, f.directory, policy, limiter, WithClock(f.clock))
	return f
}

func TestTrackerMarkPipeline(t *testing.T) {
	f := newTrackerFixture(t, 10)
	ctx := context.Background()

	result, err := f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "::ffff:10.0.0.5"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.Record.EmployeeName)
	assert.Equal(t, "2024-03-15", result.Record.Date)
	assert.Equal(t, "10.0.0.5", result.Record.CheckInIP)

	status := f.tracker.Status("E1")
	assert.True(t, status.HasCheckedIn)
	assert.False(t, status.HasCheckedOut)

	f.now = at("2024-03-15", "17:30:00")
	result, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckOut, SourceAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, 8.5, *result.Record.WorkHours)

	date, records := f.tracker.TodayRecords()
	assert.Equal(t, "2024-03-15", date)
	assert.Len(t, records, 1)
}

func TestTrackerMarkErrors(t *testing.T) {
	f := newTrackerFixture(t, 10)
	ctx := context.Background()

	_, err := f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "10.0.1.5"})
	var forbidden *ForbiddenNetworkError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "10.0.1.5", forbidden.Address)
	assert.Equal(t, []string{"10.0.0.0/24"}, forbidden.AllowedNetworks)

	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: "sideways", SourceAddress: "10.0.0.5"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "nobody", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E2", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	assert.ErrorIs(t, err, ErrEmployeeInactive)

	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckOut, SourceAddress: "10.0.0.5"})
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestTrackerRateLimitsBeforeDirectoryLookup(t *testing.T) {
	f := newTrackerFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.tracker.Mark(ctx, MarkRequest{EmployeeID: "nobody", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	}

	f.now = f.now.Add(10 * time.Minute)
	_, err := f.tracker.Mark(ctx, MarkRequest{EmployeeID: "nobody", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 50*time.Minute, limited.RetryAfter)

	// blocked networks never reach the limiter
	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "192.168.0.1"})
	require.Error(t, err)
	_, err = f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	assert.NoError(t, err)
}

func TestTrackerUsesOfficeTimezone(t *testing.T) {
	f := newTrackerFixture(t, 10)
	loc := time.FixedZone("UTC+10", 10*3600)
	WithLocation(loc)(f.tracker)

	// 15:00 UTC on the 15th is already the 16th at the office
	f.now = at("2024-03-15", "15:00:00")
	result, err := f.tracker.Mark(context.Background(), MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", result.Record.Date)
	assert.Equal(t, "2024-03-16", f.tracker.Today())
}

func TestTrackerReportAfterEmployeeDeleted(t *testing.T) {
	f := newTrackerFixture(t, 10)
	ctx := context.Background()

	_, err := f.tracker.Mark(ctx, MarkRequest{EmployeeID: "E1", Type: TypeCheckIn, SourceAddress: "10.0.0.5"})
	require.NoError(t, err)
	require.NoError(t, f.directory.Delete(ctx, "E1"))

	assert.Len(t, f.tracker.AllRecords(), 1)

	report, err := f.tracker.MonthlyReport(3, 2024)
	require.NoError(t, err)
	assert.Equal(t, "N/A", report.Summaries[0].Department)

	_, err = report.Render("Office", time.UTC)
	assert.NoError(t, err)

	filtered := f.tracker.Filter(Criteria{Department: "n/a"})
	assert.Len(t, filtered, 1)
}

func TestTrackerAuthorize(t *testing.T) {
	f := newTrackerFixture(t, 10)

	assert.NoError(t, f.tracker.Authorize("::FFFF:10.0.0.200"))

	var forbidden *ForbiddenNetworkError
	require.ErrorAs(t, f.tracker.Authorize("192.168.1.1"), &forbidden)
	assert.Equal(t, "192.168.1.1", forbidden.Address)
}
