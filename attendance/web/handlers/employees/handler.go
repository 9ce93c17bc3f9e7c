package employees

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

func Register(admin *gin.RouterGroup, base common.Handler) {
	endpoint := &Endpoint{base: base}
	admin.GET("/employees", endpoint.List)
	admin.POST("/employees", endpoint.Create)
	admin.POST("/employees/import", endpoint.Import)
	admin.PUT("/employees/:employeeId", endpoint.Update)
	admin.DELETE("/employees/:employeeId", endpoint.Delete)
}

type CreateEmployeeDTO struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	EmployeeName string `json:"employeeName" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
	Position     string `json:"position"`
}

type UpdateEmployeeDTO struct {
	EmployeeName *string `json:"employeeName"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	IsActive     *bool   `json:"isActive"`
}

type EmployeesResponse struct {
	Employees []model.Employee `json:"employees"`
}

type EmployeeResponse struct {
	Message  string         `json:"message"`
	Employee model.Employee `json:"employee"`
}

func (ep *Endpoint) List(c *gin.Context) {
	c.JSON(http.StatusOK, EmployeesResponse{Employees: ep.base.Directory.List()})
}

func (ep *Endpoint) Create(c *gin.Context) {
	var body CreateEmployeeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	employee, err := ep.base.Directory.Create(c.Request.Context(), core.NewEmployee{
		EmployeeID:   body.EmployeeID,
		EmployeeName: body.EmployeeName,
		Email:        body.Email,
		Phone:        body.Phone,
		Department:   body.Department,
		Position:     body.Position,
	})
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, EmployeeResponse{Message: "Employee added successfully", Employee: employee})
}

func (ep *Endpoint) Update(c *gin.Context) {
	var body UpdateEmployeeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	employee, err := ep.base.Directory.Update(c.Request.Context(), c.Param("employeeId"), core.EmployeeUpdate{
		EmployeeName: body.EmployeeName,
		Email:        body.Email,
		Phone:        body.Phone,
		Department:   body.Department,
		Position:     body.Position,
		IsActive:     body.IsActive,
	})
	if err != nil {
		ep.base.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmployeeResponse{Message: "Employee updated successfully", Employee: employee})
}

func (ep *Endpoint) Delete(c *gin.Context) {
	if err := ep.base.Directory.Delete(c.Request.Context(), c.Param("employeeId")); err != nil {
		ep.base.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewMessageResponse("Employee deleted successfully"))
}
