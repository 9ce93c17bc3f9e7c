package model

import "time"

type Employee struct {
	EmployeeID   string     `gorm:"primaryKey;column:employee_id;type:varchar(64)" json:"employeeId"`
	EmployeeName string     `gorm:"column:employee_name;type:varchar(255);not null" json:"employeeName"`
	Email        string     `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone        string     `gorm:"column:phone;type:varchar(64)" json:"phone"`
	Department   string     `gorm:"column:department;type:varchar(128)" json:"department"`
	Position     string     `gorm:"column:position;type:varchar(128)" json:"position"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	UpdatedAt    *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt,omitempty"`
}

func (Employee) TableName() string {
	return "attendance_employees"
}
