package reports

import (
	"fmt"
	"log/slog"
	"net/http"

	"axiapac.com/attendance/attendance/core"
	common "axiapac.com/attendance/attendance/web/common"
	web "axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Endpoint struct {
	base  common.Handler
	title string
}

// Register mounts the workbook export. title heads the summary sheet.
func Register(admin *gin.RouterGroup, base common.Handler, title string) {
	endpoint := &Endpoint{base: base, title: title}
	admin.GET("/attendance/export", endpoint.Export)
}

type ExportParams struct {
	Month string `form:"month" json:"month" binding:"required"`
	Year  string `form:"year" json:"year" binding:"required"`
}

func (ep *Endpoint) Export(c *gin.Context) {
	var params ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	month, err := common.ParseOptionalInt(params.Month)
	if err != nil {
		ep.base.RespondError(c, core.ErrInvalidPeriod)
		return
	}
	year, err := common.ParseOptionalInt(params.Year)
	if err != nil {
		ep.base.RespondError(c, core.ErrInvalidPeriod)
		return
	}

	report, err := ep.base.Tracker.MonthlyReport(*month, *year)
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}

	data, err := report.Render(ep.title, ep.base.Tracker.Location())
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}

	filename := core.ReportFilename(*month, *year)
	slog.InfoContext(c.Request.Context(), "attendance report exported", "file", filename, "employees", len(report.Summaries))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
