package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const openAttendanceIndex = "uniq_open_attendance_per_day"

const attendanceSelect = `
	SELECT a.id, a.profile_id, a.work_date, a.check_in_time, a.check_out_time,
		   a.check_in_method, a.check_out_method, a.status, a.device_id, a.notes, a.created_by,
		   a.created_at, a.updated_at,
		   p.full_name AS employee_name, p.employee_id AS employee_code, d.name AS department_name
	FROM attendance_records a
	JOIN profiles p ON p.id = a.profile_id
	LEFT JOIN departments d ON d.id = p.department_id
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.ProfileID, &rec.WorkDate, &rec.CheckInTime, &rec.CheckOutTime,
		&rec.CheckInMethod, &rec.CheckOutMethod, &rec.Status, &rec.DeviceID, &rec.Notes, &rec.CreatedBy,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.DepartmentName,
	)
	return rec, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance_records (
			id, profile_id, work_date, check_in_time, check_out_time,
			check_in_method, check_out_method, status, device_id, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = q.Exec(ctx, query,
		id.String(),
		rec.ProfileID,
		rec.WorkDate,
		rec.CheckInTime,
		rec.CheckOutTime,
		rec.CheckInMethod,
		rec.CheckOutMethod,
		rec.Status,
		rec.DeviceID,
		rec.Notes,
		rec.CreatedBy,
	)
	if err != nil {
		if uniqueViolationOn(err, openAttendanceIndex) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.GetByID(ctx, id.String())
}

func (a *attendanceRepository) getOne(ctx context.Context, where string, args ...any) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	return a.getOne(ctx, "a.id = $1", id)
}

// GetOpenByProfileAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (attendance.Record, error) {
	return a.getOne(ctx, "a.profile_id = $1 AND a.work_date = $2 AND a.check_out_time IS NULL LIMIT 1", profileID, workDate)
}

// GetLatestByProfileAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatestByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (attendance.Record, error) {
	return a.getOne(ctx, "a.profile_id = $1 AND a.work_date = $2 ORDER BY a.check_in_time DESC LIMIT 1", profileID, workDate)
}

// CloseSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseSession(ctx context.Context, id string, checkOut time.Time, method attendance.Method, deviceID *string, notes *string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $1,
			check_out_method = $2,
			device_id = COALESCE($3, device_id),
			notes = COALESCE($4, notes),
			updated_at = NOW()
		WHERE id = $5 AND check_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query, checkOut, method, deviceID, notes, id)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to close attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := a.GetByID(ctx, id); err != nil {
			return attendance.Record{}, err
		}
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}

	return a.GetByID(ctx, id)
}

// UpdateTimes implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateTimes(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET work_date = $1, check_in_time = $2, check_out_time = $3,
			check_out_method = COALESCE(check_out_method, $4),
			updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, rec.WorkDate, rec.CheckInTime, rec.CheckOutTime, rec.CheckOutMethod, rec.ID)
	if err != nil {
		if uniqueViolationOn(err, openAttendanceIndex) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance times: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	return a.GetByID(ctx, rec.ID)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.ProfileID != nil && *filter.ProfileID != "" {
		baseWhere += fmt.Sprintf(" AND a.profile_id = $%d", argIdx)
		args = append(args, *filter.ProfileID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND p.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.work_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.work_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		JOIN profiles p ON p.id = a.profile_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	orderByField := "a.work_date"
	switch filter.SortBy {
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	case "employee_name":
		orderByField = "p.full_name"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, a.check_in_time DESC
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, workDate time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, attendanceSelect+`
		WHERE a.check_out_time IS NULL AND a.work_date < $1
		ORDER BY a.work_date ASC
	`, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendance: %w", err)
	}
	return collectAttendance(rows)
}
