package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"axiapac.com/attendance/attendance/model"
	store "axiapac.com/attendance/core"
	"axiapac.com/attendance/utils"
)

type NewEmployee struct {
	EmployeeID   string
	EmployeeName string
	Email        string
	Phone        string
	Department   string
	Position     string
}

// EmployeeUpdate carries only the fields to change. An empty EmployeeName keeps the current name.
type EmployeeUpdate struct {
	EmployeeName *string
	Email        *string
	Phone        *string
	Department   *string
	Position     *string
	IsActive     *bool
}

// Directory owns the employee collection. Reads are served from memory,
// writes are serialized and persisted before they become visible.
type Directory struct {
	store     store.Store[model.Employee]
	now       func() time.Time
	writeMu   sync.Mutex
	mu        sync.RWMutex
	employees []model.Employee
}

func NewDirectory(ctx context.Context, s store.Store[model.Employee], now func() time.Time) (*Directory, error) {
	employees, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Directory{store: s, now: now, employees: employees}, nil
}

// List returns employees in insertion order.
func (d *Directory) List() []model.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.Employee{}, d.employees...)
}

func (d *Directory) Get(employeeID string) (model.Employee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e := utils.Find(d.employees, func(e model.Employee) bool { return e.EmployeeID == employeeID })
	if e == nil {
		return model.Employee{}, false
	}
	return *e, true
}

// Lookup indexes the current employees by ID.
func (d *Directory) Lookup() map[string]model.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lookup := make(map[string]model.Employee, len(d.employees))
	for _, e := range d.employees {
		lookup[e.EmployeeID] = e
	}
	return lookup
}

func (d *Directory) indexOf(employees []model.Employee, employeeID string) int {
	for i, e := range employees {
		if e.EmployeeID == employeeID {
			return i
		}
	}
	return -1
}

// mutate applies fn to a copy of the collection, saves it and then publishes it.
func (d *Directory) mutate(ctx context.Context, fn func(employees []model.Employee) ([]model.Employee, error)) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	next, err := fn(d.List())
	if err != nil {
		return err
	}
	if err := d.store.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to save employees: %w", err)
	}

	d.mu.Lock()
	d.employees = next
	d.mu.Unlock()
	return nil
}

func (d *Directory) Create(ctx context.Context, in NewEmployee) (model.Employee, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.EmployeeName = strings.TrimSpace(in.EmployeeName)
	if in.EmployeeID == "" || in.EmployeeName == "" {
		return model.Employee{}, ErrInvalidEmployee
	}

	employee := model.Employee{
		EmployeeID:   in.EmployeeID,
		EmployeeName: in.EmployeeName,
		Email:        in.Email,
		Phone:        in.Phone,
		Department:   in.Department,
		Position:     in.Position,
		IsActive:     true,
		CreatedAt:    d.now().UTC(),
	}

	err := d.mutate(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		if d.indexOf(employees, employee.EmployeeID) >= 0 {
			return nil, ErrDuplicateID
		}
		return append(employees, employee), nil
	})
	if err != nil {
		return model.Employee{}, err
	}
	return employee, nil
}

// Update merges the provided fields. The employee ID never changes.
func (d *Directory) Update(ctx context.Context, employeeID string, in EmployeeUpdate) (model.Employee, error) {
	var updated model.Employee
	err := d.mutate(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		i := d.indexOf(employees, employeeID)
		if i < 0 {
			return nil, ErrNotFound
		}

		e := employees[i]
		if in.EmployeeName != nil && strings.TrimSpace(*in.EmployeeName) != "" {
			e.EmployeeName = strings.TrimSpace(*in.EmployeeName)
		}
		if in.Email != nil {
			e.Email = *in.Email
		}
		if in.Phone != nil {
			e.Phone = *in.Phone
		}
		if in.Department != nil {
			e.Department = *in.Department
		}
		if in.Position != nil {
			e.Position = *in.Position
		}
		if in.IsActive != nil {
			e.IsActive = *in.IsActive
		}
		e.UpdatedAt = utils.Ptr(d.now().UTC())

		employees[i] = e
		updated = e
		return employees, nil
	})
	return updated, err
}

// Delete removes the directory entry only. Attendance history is untouched.
func (d *Directory) Delete(ctx context.Context, employeeID string) error {
	return d.mutate(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		i := d.indexOf(employees, employeeID)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(employees[:i], employees[i+1:]...), nil
	})
}
