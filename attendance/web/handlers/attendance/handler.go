package attendance

import (
	"net/http"

	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/attendance/model"
	common "axiapac.com/attendance/attendance/web/common"
	web "axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base common.Handler
}

// Register mounts the public attendance endpoints on public and the review endpoints on admin.
func Register(public *gin.RouterGroup, admin *gin.RouterGroup, base common.Handler) {
	endpoint := &Endpoint{base: base}
	public.POST("/attendance", endpoint.Mark)
	public.GET("/attendance/status/:employeeId", endpoint.Status)
	public.GET("/attendance/today", endpoint.Today)

	admin.GET("/attendance/all", endpoint.All)
	admin.GET("/attendance/filter", endpoint.Filter)
	admin.GET("/attendance/summary", endpoint.Summary)
}

type MarkAttendanceDTO struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=in out"`
}

type MarkAttendanceResponse struct {
	Message   string   `json:"message"`
	CheckIn   *string  `json:"checkIn,omitempty"`
	CheckOut  *string  `json:"checkOut,omitempty"`
	WorkHours *float64 `json:"workHours,omitempty"`
}

func (ep *Endpoint) Mark(c *gin.Context) {
	address := c.ClientIP()

	// the network check runs before the body is even parsed
	if err := ep.base.Tracker.Authorize(address); err != nil {
		ep.base.RespondError(c, err)
		return
	}

	var body MarkAttendanceDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	result, err := ep.base.Tracker.Mark(c.Request.Context(), core.MarkRequest{
		EmployeeID:    body.EmployeeID,
		Type:          body.Type,
		SourceAddress: address,
	})
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, markResponse(result))
}

func markResponse(result core.MarkResult) MarkAttendanceResponse {
	const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	if result.Type == core.TypeCheckIn {
		checkIn := result.Record.CheckIn.UTC().Format(timestampLayout)
		return MarkAttendanceResponse{Message: "Checked in successfully!", CheckIn: &checkIn}
	}
	checkOut := result.Record.CheckOut.UTC().Format(timestampLayout)
	return MarkAttendanceResponse{Message: "Checked out successfully!", CheckOut: &checkOut, WorkHours: result.Record.WorkHours}
}

func (ep *Endpoint) Status(c *gin.Context) {
	c.JSON(http.StatusOK, ep.base.Tracker.Status(c.Param("employeeId")))
}

type TodayResponse struct {
	Date       string                   `json:"date"`
	Count      int                      `json:"count"`
	Attendance []model.AttendanceRecord `json:"attendance"`
}

func (ep *Endpoint) Today(c *gin.Context) {
	date, records := ep.base.Tracker.TodayRecords()
	c.JSON(http.StatusOK, TodayResponse{Date: date, Count: len(records), Attendance: records})
}

type AllResponse struct {
	Total      int                      `json:"total"`
	Attendance []model.AttendanceRecord `json:"attendance"`
}

func (ep *Endpoint) All(c *gin.Context) {
	records := ep.base.Tracker.AllRecords()
	c.JSON(http.StatusOK, AllResponse{Total: len(records), Attendance: records})
}
