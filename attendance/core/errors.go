package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeInactive  = errors.New("employee is inactive")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNotCheckedIn      = errors.New("must check in before checking out")
	ErrInvalidType       = errors.New(`invalid type, use "in" or "out"`)

	ErrDuplicateID     = errors.New("employee ID already exists")
	ErrNotFound        = errors.New("employee not found")
	ErrInvalidEmployee = errors.New("employee ID and name are required")

	ErrNoDataForPeriod = errors.New("no attendance records found for the selected period")
	ErrInvalidPeriod   = errors.New("invalid month or year")
)

// ForbiddenNetworkError is returned when the source address is outside every allowed network.
type ForbiddenNetworkError struct {
	Address         string
	AllowedNetworks []string
}

func (e *ForbiddenNetworkError) Error() string {
	return fmt.Sprintf("address %s is not in allowed networks [%s]", e.Address, strings.Join(e.AllowedNetworks, ", "))
}

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %s", e.RetryAfter.Round(time.Second))
}
