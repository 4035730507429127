package report

import (
	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type DailyReportFilter struct {
	Date         string  `json:"date"` // YYYY-MM-DD, defaults to today
	DepartmentID *string `json:"department_id,omitempty"`
}

func (f *DailyReportFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Date != "" {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid id")
	}
	return errs.Err()
}

type MonthlyReportFilter struct {
	Month        string  `json:"month"` // YYYY-MM, defaults to the current month
	DepartmentID *string `json:"department_id,omitempty"`
}

func (f *MonthlyReportFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Month != "" {
		if _, ok := validator.IsValidMonth(f.Month); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid id")
	}
	return errs.Err()
}

// StatusCounts counts records per attendance status.
type StatusCounts struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
	OnLeave int `json:"on_leave"`
}

// Add increments the counter for status.
func (c *StatusCounts) Add(status attendance.Status, n int) {
	switch status {
	case attendance.StatusPresent:
		c.Present += n
	case attendance.StatusLate:
		c.Late += n
	case attendance.StatusAbsent:
		c.Absent += n
	case attendance.StatusHalfDay:
		c.HalfDay += n
	case attendance.StatusOnLeave:
		c.OnLeave += n
	}
}

type DailyReportResponse struct {
	Date               string                          `json:"date"`
	DepartmentID       *string                         `json:"department_id,omitempty"`
	TotalRecords       int                             `json:"total_records"`
	OpenSessions       int                             `json:"open_sessions"`
	NotRecorded        int                             `json:"not_recorded"` // active employees with no record
	Counts             StatusCounts                    `json:"counts"`
	TotalWorkedMinutes int                             `json:"total_worked_minutes"`
	Records            []attendance.AttendanceResponse `json:"records"`
}

// EmployeeMonthlySummary aggregates one profile's records over a month.
type EmployeeMonthlySummary struct {
	ProfileID          string       `json:"profile_id"`
	EmployeeName       string       `json:"employee_name"`
	EmployeeID         *string      `json:"employee_id,omitempty"`
	DepartmentName     *string      `json:"department_name,omitempty"`
	DaysRecorded       int          `json:"days_recorded"`
	Counts             StatusCounts `json:"counts"`
	TotalWorkedMinutes int          `json:"total_worked_minutes"`
}

type MonthlyReportResponse struct {
	Month        string                   `json:"month"`
	DepartmentID *string                  `json:"department_id,omitempty"`
	Employees    []EmployeeMonthlySummary `json:"employees"`
}
