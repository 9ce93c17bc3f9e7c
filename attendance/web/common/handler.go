package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/infrastructure/communication"
	web "axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

// Handler carries the collaborators shared by every endpoint.
type Handler struct {
	Tracker   *core.Tracker
	Directory *core.Directory
	Notifier  communication.Notifier
}

const notifyTimeout = 10 * time.Second

type ForbiddenResponse struct {
	Error           string   `json:"error"`
	YourIP          string   `json:"yourIP"`
	AllowedNetworks []string `json:"allowedNetworks"`
}

type RateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

var domainErrors = []struct {
	err     error
	status  int
	message string
}{
	{core.ErrEmployeeNotFound, http.StatusNotFound, "Employee not found or inactive"},
	{core.ErrEmployeeInactive, http.StatusNotFound, "Employee not found or inactive"},
	{core.ErrAlreadyCheckedIn, http.StatusBadRequest, "You have already checked in today"},
	{core.ErrAlreadyCheckedOut, http.StatusBadRequest, "You have already checked out today"},
	{core.ErrNotCheckedIn, http.StatusBadRequest, "You must check in before checking out"},
	{core.ErrInvalidType, http.StatusBadRequest, `Invalid type. Use "in" or "out"`},
	{core.ErrDuplicateID, http.StatusBadRequest, "Employee ID already exists"},
	{core.ErrInvalidEmployee, http.StatusBadRequest, "Employee ID and name are required"},
	{core.ErrNotFound, http.StatusNotFound, "Employee not found"},
	{core.ErrNoDataForPeriod, http.StatusNotFound, "No attendance records found for the selected period"},
	{core.ErrInvalidPeriod, http.StatusBadRequest, "Invalid month or year"},
}

// RespondError writes the HTTP shape of err. Anything unrecognised is logged,
// reported and answered with a generic 500.
func (h *Handler) RespondError(c *gin.Context, err error) {
	var forbidden *core.ForbiddenNetworkError
	if errors.As(err, &forbidden) {
		c.JSON(http.StatusForbidden, ForbiddenResponse{
			Error:           "Attendance can only be marked from office premises",
			YourIP:          forbidden.Address,
			AllowedNetworks: forbidden.AllowedNetworks,
		})
		return
	}

	var limited *core.RateLimitedError
	if errors.As(err, &limited) {
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.JSON(http.StatusTooManyRequests, RateLimitedResponse{
			Error:      "Too many attempts. Please try again later.",
			RetryAfter: seconds,
		})
		return
	}

	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			c.JSON(d.status, web.NewErrorResponse(d.message))
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	h.notify(c.Request.Context(), fmt.Sprintf("%s %s failed: %v", c.Request.Method, c.FullPath(), err))
	c.JSON(http.StatusInternalServerError, web.NewErrorResponse("Internal server error"))
}

func (h *Handler) notify(ctx context.Context, message string) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := h.Notifier.Error(ctx, message); err != nil {
			slog.Warn("failed to send notification", "error", err)
		}
	}()
}

// ParseOptionalInt reads an optional integer query parameter.
func ParseOptionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
