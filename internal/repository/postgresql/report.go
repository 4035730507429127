package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/report"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// DailyRecords implements report.ReportRepository.
func (r *reportRepositoryImpl) DailyRecords(ctx context.Context, date time.Time, departmentID *string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.work_date = $1
		  AND ($2::uuid IS NULL OR p.department_id = $2::uuid)
		ORDER BY p.full_name ASC, a.check_in_time ASC
	`
	rows, err := q.Query(ctx, query, date, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily records: %w", err)
	}
	return collectAttendance(rows)
}

// StatusTotals implements report.ReportRepository.
func (r *reportRepositoryImpl) StatusTotals(ctx context.Context, from, to time.Time, departmentID *string) ([]report.StatusTotal, error) {
	q := GetQuerier(ctx, r.db)

	// Employees without records still get one row with an empty status
	query := `
		SELECT
			p.id,
			p.full_name,
			p.employee_id,
			d.name AS department_name,
			COALESCE(a.status, '') AS status,
			COUNT(DISTINCT a.work_date) AS days,
			COALESCE(SUM(EXTRACT(EPOCH FROM (a.check_out_time - a.check_in_time)) / 60), 0)::int AS worked_minutes
		FROM profiles p
		LEFT JOIN departments d ON d.id = p.department_id
		LEFT JOIN attendance_records a ON a.profile_id = p.id
			AND a.work_date >= $1 AND a.work_date < $2
		WHERE p.role = 'employee'
		  AND p.is_active
		  AND ($3::uuid IS NULL OR p.department_id = $3::uuid)
		GROUP BY p.id, p.full_name, p.employee_id, d.name, COALESCE(a.status, '')
		ORDER BY p.full_name ASC, p.id ASC
	`
	rows, err := q.Query(ctx, query, from, to, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status totals: %w", err)
	}
	defer rows.Close()

	var totals []report.StatusTotal
	for rows.Next() {
		var t report.StatusTotal
		if err := rows.Scan(&t.ProfileID, &t.EmployeeName, &t.EmployeeID, &t.DepartmentName, &t.Status, &t.Days, &t.WorkedMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan status total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status totals: %w", err)
	}
	return totals, nil
}
