package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"axiapac.com/attendance/attendance/model"
	store "axiapac.com/attendance/core"
	"axiapac.com/attendance/utils"
	"github.com/google/uuid"
)

type recordKey struct {
	employeeID string
	date       string
}

func (k recordKey) String() string {
	return k.employeeID + "|" + k.date
}

// Status is the attendance state of one employee for one day.
type Status struct {
	HasCheckedIn  bool       `json:"hasCheckedIn"`
	HasCheckedOut bool       `json:"hasCheckedOut"`
	CheckIn       *time.Time `json:"checkIn"`
	CheckOut      *time.Time `json:"checkOut"`
	WorkHours     *float64   `json:"workHours"`
}

// Ledger owns the attendance records. Every record moves Absent -> CheckedIn -> Complete.
//
// Records are cached in memory after the initial load. Transitions on the same
// (employee, date) are serialized by a keyed lock; saves are serialized and each
// one writes a snapshot taken inside the save lock, so it includes every change
// published before it. A failed save reverts the change in memory.
type Ledger struct {
	store   store.Store[model.AttendanceRecord]
	keys    *KeyedMutex
	saveMu  sync.Mutex
	mu      sync.RWMutex
	records []*model.AttendanceRecord
	index   map[recordKey]*model.AttendanceRecord
	nextSeq int64
}

func NewLedger(ctx context.Context, s store.Store[model.AttendanceRecord]) (*Ledger, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	l := &Ledger{
		store: s,
		keys:  NewKeyedMutex(),
		index: make(map[recordKey]*model.AttendanceRecord, len(loaded)),
	}

	// stable sort keeps load order for records saved before sequences existed
	slices.SortStableFunc(loaded, func(a, b model.AttendanceRecord) int {
		return compareSequence(a.Sequence, b.Sequence)
	})
	for i := range loaded {
		r := loaded[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Sequence > l.nextSeq {
			l.nextSeq = r.Sequence
		}
		key := recordKey{r.EmployeeID, r.Date}
		if _, dup := l.index[key]; dup {
			continue
		}
		l.records = append(l.records, &r)
		l.index[key] = &r
	}
	for _, r := range l.records {
		if r.Sequence == 0 {
			l.nextSeq++
			r.Sequence = l.nextSeq
		}
	}
	return l, nil
}

// records with no sequence sort after the numbered ones
func compareSequence(a, b int64) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}

func (l *Ledger) Status(employeeID, date string) Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.index[recordKey{employeeID, date}]
	if !ok {
		return Status{}
	}
	return Status{
		HasCheckedIn:  r.HasCheckedIn(),
		HasCheckedOut: r.HasCheckedOut(),
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		WorkHours:     r.WorkHours,
	}
}

// CheckIn moves (employeeID, date) from Absent to CheckedIn.
func (l *Ledger) CheckIn(ctx context.Context, employeeID, employeeName, date, sourceAddress string, now time.Time) (model.AttendanceRecord, error) {
	key := recordKey{employeeID, date}
	unlock := l.keys.Lock(key.String())
	defer unlock()

	l.mu.Lock()
	existing := l.index[key]
	if existing != nil && existing.CheckIn != nil {
		l.mu.Unlock()
		return model.AttendanceRecord{}, ErrAlreadyCheckedIn
	}

	var undo func()
	var record *model.AttendanceRecord
	if existing == nil {
		l.nextSeq++
		record = &model.AttendanceRecord{
			ID:           uuid.NewString(),
			Sequence:     l.nextSeq,
			EmployeeID:   employeeID,
			EmployeeName: employeeName,
			Date:         date,
			CheckIn:      utils.Ptr(now),
			CheckInIP:    sourceAddress,
			CreatedAt:    now,
		}
		l.records = append(l.records, record)
		l.index[key] = record
		undo = func() {
			delete(l.index, key)
			l.records = slices.DeleteFunc(l.records, func(r *model.AttendanceRecord) bool { return r == record })
		}
	} else {
		// a record without a check-in only comes from imported data
		record = existing
		previous := *existing
		record.CheckIn = utils.Ptr(now)
		record.CheckInIP = sourceAddress
		undo = func() { *record = previous }
	}
	result := *record
	l.mu.Unlock()

	if err := l.persist(ctx, undo); err != nil {
		return model.AttendanceRecord{}, err
	}
	return result, nil
}

// CheckOut moves (employeeID, date) from CheckedIn to Complete and computes the work hours.
func (l *Ledger) CheckOut(ctx context.Context, employeeID, date, sourceAddress string, now time.Time) (model.AttendanceRecord, error) {
	key := recordKey{employeeID, date}
	unlock := l.keys.Lock(key.String())
	defer unlock()

	l.mu.Lock()
	record := l.index[key]
	if record == nil || record.CheckIn == nil {
		l.mu.Unlock()
		return model.AttendanceRecord{}, ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		l.mu.Unlock()
		return model.AttendanceRecord{}, ErrAlreadyCheckedOut
	}

	previous := *record
	record.CheckOut = utils.Ptr(now)
	record.CheckOutIP = utils.Ptr(sourceAddress)
	record.WorkHours = utils.Ptr(WorkHours(*record.CheckIn, now))
	result := *record
	l.mu.Unlock()

	if err := l.persist(ctx, func() { *record = previous }); err != nil {
		return model.AttendanceRecord{}, err
	}
	return result, nil
}

// WorkHours is the elapsed time in hours rounded to two decimals.
func WorkHours(checkIn, checkOut time.Time) float64 {
	return math.Round(checkOut.Sub(checkIn).Hours()*100) / 100
}

func (l *Ledger) persist(ctx context.Context, undo func()) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	if err := l.store.SaveAll(ctx, l.Snapshot()); err != nil {
		l.mu.Lock()
		undo()
		l.mu.Unlock()

		// an earlier save, or a write that failed late, can already hold the reverted change
		if resyncErr := l.store.SaveAll(ctx, l.Snapshot()); resyncErr != nil {
			slog.ErrorContext(ctx, "failed to resync attendance records", "error", resyncErr)
		}
		return fmt.Errorf("failed to save attendance records: %w", err)
	}
	return nil
}

// Snapshot copies every record in submission order.
func (l *Ledger) Snapshot() []model.AttendanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.AttendanceRecord, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

// RecordsForDate returns the day's records in submission order.
func (l *Ledger) RecordsForDate(date string) []model.AttendanceRecord {
	return utils.Filter(l.Snapshot(), func(r model.AttendanceRecord) bool { return r.Date == date })
}

func (l *Ledger) AllRecords() []model.AttendanceRecord {
	return l.Snapshot()
}
