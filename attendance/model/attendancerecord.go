package model

import "time"

// AttendanceRecord is one employee's attendance for one calendar day.
// Sequence is assigned once at creation and orders records by submission.
type AttendanceRecord struct {
	ID           string     `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Sequence     int64      `gorm:"column:sequence;not null;index" json:"sequence"`
	EmployeeID   string     `gorm:"column:employee_id;type:varchar(64);not null;uniqueIndex:idx_attendance_employee_date" json:"employeeId"`
	EmployeeName string     `gorm:"column:employee_name;type:varchar(255)" json:"employeeName"`
	Date         string     `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_attendance_employee_date;index" json:"date"`
	CheckIn      *time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckInIP    string     `gorm:"column:check_in_ip;type:varchar(64)" json:"checkInIP"`
	CheckOut     *time.Time `gorm:"column:check_out" json:"checkOut"`
	CheckOutIP   *string    `gorm:"column:check_out_ip;type:varchar(64)" json:"checkOutIP"`
	WorkHours    *float64   `gorm:"column:work_hours;type:decimal(10,2)" json:"workHours,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

func (r AttendanceRecord) HasCheckedIn() bool {
	return r.CheckIn != nil
}

func (r AttendanceRecord) HasCheckedOut() bool {
	return r.CheckOut != nil
}
