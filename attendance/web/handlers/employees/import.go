package employees

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"axiapac.com/attendance/attendance/core"
	web "axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

const maxImportSize = 5 << 20

type ImportResponse struct {
	Message string `json:"message"`
	core.ImportResult
}

// Import bulk-creates employees from a CSV sent as the multipart field "file".
func (ep *Endpoint) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("A CSV file is required in field 'file'"))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Only .csv files are accepted"))
		return
	}

	file, err := header.Open()
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}
	defer file.Close()

	rows, err := core.ParseEmployeeCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	result, err := ep.base.Directory.Import(c.Request.Context(), rows)
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Message:      fmt.Sprintf("%d employees imported, %d skipped", len(result.Created), len(result.Skipped)),
		ImportResult: result,
	})
}
