package attendance

import (
	"net/http"

	"axiapac.com/attendance/attendance/core"
	common "axiapac.com/attendance/attendance/web/common"
	web "axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

type FilterParams struct {
	EmployeeID   string `form:"employeeId" json:"employeeId,omitempty"`
	EmployeeName string `form:"employeeName" json:"employeeName,omitempty"`
	Department   string `form:"department" json:"department,omitempty"`
	Month        string `form:"month" json:"month,omitempty"`
	Year         string `form:"year" json:"year,omitempty"`
}

type FilterResponse struct {
	Count      int                   `json:"count"`
	Attendance []core.EnrichedRecord `json:"attendance"`
	Filters    FilterParams          `json:"filters"`
}

func (p FilterParams) criteria() (core.Criteria, error) {
	month, err := common.ParseOptionalInt(p.Month)
	if err != nil || (month != nil && (*month < 1 || *month > 12)) {
		return core.Criteria{}, core.ErrInvalidPeriod
	}
	year, err := common.ParseOptionalInt(p.Year)
	if err != nil || (year != nil && *year < 1) {
		return core.Criteria{}, core.ErrInvalidPeriod
	}
	return core.Criteria{
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		Department:   p.Department,
		Month:        month,
		Year:         year,
	}, nil
}

func (ep *Endpoint) Filter(c *gin.Context) {
	var params FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	criteria, err := params.criteria()
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}

	records := ep.base.Tracker.Filter(criteria)
	c.JSON(http.StatusOK, FilterResponse{Count: len(records), Attendance: records, Filters: params})
}

type PeriodParams struct {
	Month int `form:"month" json:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" json:"year" binding:"required,min=1"`
}

func (ep *Endpoint) Summary(c *gin.Context) {
	var params PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	report, err := ep.base.Tracker.MonthlyReport(params.Month, params.Year)
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
