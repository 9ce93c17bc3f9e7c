package core

import (
	"context"
	"log/slog"
	"time"

	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/security"
	"axiapac.com/attendance/utils"
)

const (
	TypeCheckIn  = "in"
	TypeCheckOut = "out"
)

// NetworkPolicy is satisfied by *security.IPPolicy.
type NetworkPolicy interface {
	IsAllowed(remoteAddress string) bool
	AllowedNetworks() []string
}

// AttemptLimiter is satisfied by *security.RateLimiter.
type AttemptLimiter interface {
	TryConsume(identity string) bool
	RetryAfter(identity string) time.Duration
}

type MarkRequest struct {
	EmployeeID    string
	Type          string
	SourceAddress string
}

type MarkResult struct {
	Type   string
	Record model.AttendanceRecord
}

// Tracker runs the attendance pipeline: network policy, rate limit, directory, ledger.
type Tracker struct {
	ledger    *Ledger
	directory *Directory
	policy    NetworkPolicy
	limiter   AttemptLimiter
	location  *time.Location
	now       func() time.Time
}

type TrackerOption func(*Tracker)

// WithLocation sets the office time zone that decides the calendar date.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(ledger *Ledger, directory *Directory, policy NetworkPolicy, limiter AttemptLimiter, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		ledger:    ledger,
		directory: directory,
		policy:    policy,
		limiter:   limiter,
		location:  time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Location() *time.Location {
	return t.location
}

// Today is the current calendar date in the office time zone.
func (t *Tracker) Today() string {
	return utils.DateOf(t.now(), t.location)
}

// Authorize fails with a *ForbiddenNetworkError when remoteAddress is outside every allowed network.
func (t *Tracker) Authorize(remoteAddress string) error {
	address := security.NormalizeAddress(remoteAddress)
	if !t.policy.IsAllowed(address) {
		slog.Warn("attendance blocked: address not in allowed networks", "ip", address)
		return &ForbiddenNetworkError{Address: address, AllowedNetworks: t.policy.AllowedNetworks()}
	}
	return nil
}

// Mark checks an employee in or out for today.
func (t *Tracker) Mark(ctx context.Context, req MarkRequest) (MarkResult, error) {
	if err := t.Authorize(req.SourceAddress); err != nil {
		return MarkResult{}, err
	}

	address := security.NormalizeAddress(req.SourceAddress)
	logger := slog.With("employeeId", req.EmployeeID, "type", req.Type, "ip", address)

	if req.Type != TypeCheckIn && req.Type != TypeCheckOut {
		return MarkResult{}, ErrInvalidType
	}

	if !t.limiter.TryConsume(req.EmployeeID) {
		logger.Warn("attendance blocked: rate limit exceeded")
		return MarkResult{}, &RateLimitedError{RetryAfter: t.limiter.RetryAfter(req.EmployeeID)}
	}

	employee, ok := t.directory.Get(req.EmployeeID)
	if !ok {
		return MarkResult{}, ErrEmployeeNotFound
	}
	if !employee.IsActive {
		return MarkResult{}, ErrEmployeeInactive
	}

	now := t.now()
	date := utils.DateOf(now, t.location)

	var record model.AttendanceRecord
	var err error
	if req.Type == TypeCheckIn {
		record, err = t.ledger.CheckIn(ctx, employee.EmployeeID, employee.EmployeeName, date, address, now)
	} else {
		record, err = t.ledger.CheckOut(ctx, employee.EmployeeID, date, address, now)
	}
	if err != nil {
		return MarkResult{}, err
	}

	logger.Info("attendance marked", "name", employee.EmployeeName, "date", date, "workHours", utils.FormatOr(record.WorkHours, "-"))
	return MarkResult{Type: req.Type, Record: record}, nil
}

// Status reports today's state for employeeID.
func (t *Tracker) Status(employeeID string) Status {
	return t.ledger.Status(employeeID, t.Today())
}

// TodayRecords returns today's date and its records in check-in order.
func (t *Tracker) TodayRecords() (string, []model.AttendanceRecord) {
	today := t.Today()
	return today, t.ledger.RecordsForDate(today)
}

func (t *Tracker) AllRecords() []model.AttendanceRecord {
	return t.ledger.AllRecords()
}

func (t *Tracker) Filter(c Criteria) []EnrichedRecord {
	return FilterRecords(t.ledger.Snapshot(), t.directory.Lookup(), c, t.now().In(t.location))
}

// MonthlyReport aggregates one consistent snapshot of the ledger.
func (t *Tracker) MonthlyReport(month, year int) (*MonthlyReport, error) {
	return BuildMonthlyReport(t.ledger.Snapshot(), t.directory.List(), month, year)
}
