package report

import (
	"context"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
)

// StatusTotal is one (profile, status) aggregate row for a period.
type StatusTotal struct {
	ProfileID      string
	EmployeeName   string
	EmployeeID     *string
	DepartmentName *string
	Status         attendance.Status
	Days           int
	WorkedMinutes  int
}

type ReportRepository interface {
	// DailyRecords returns every record whose work date is date
	DailyRecords(ctx context.Context, date time.Time, departmentID *string) ([]attendance.Record, error)

	// StatusTotals aggregates records with from <= work_date < to by profile and status
	StatusTotals(ctx context.Context, from, to time.Time, departmentID *string) ([]StatusTotal, error)
}
