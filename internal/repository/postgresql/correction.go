package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const correctionSelect = `
	SELECT c.id, c.attendance_id, c.profile_id, c.requested_by,
		   c.original_check_in, c.original_check_out, c.corrected_check_in, c.corrected_check_out,
		   c.reason, c.status, c.reviewed_by, c.reviewed_at, c.review_notes, c.created_at, c.updated_at,
		   p.full_name AS employee_name, p.employee_id AS employee_code, p.email AS employee_email,
		   r.full_name AS reviewer_name
	FROM attendance_corrections c
	JOIN profiles p ON p.id = c.profile_id
	LEFT JOIN profiles r ON r.id = c.reviewed_by
`

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) attendance.CorrectionRepository {
	return &correctionRepository{db: db}
}

func scanCorrection(row pgx.Row) (attendance.Correction, error) {
	var c attendance.Correction
	err := row.Scan(
		&c.ID, &c.AttendanceID, &c.ProfileID, &c.RequestedBy,
		&c.OriginalCheckIn, &c.OriginalCheckOut, &c.CorrectedCheckIn, &c.CorrectedCheckOut,
		&c.Reason, &c.Status, &c.ReviewedBy, &c.ReviewedAt, &c.ReviewNotes, &c.CreatedAt, &c.UpdatedAt,
		&c.EmployeeName, &c.EmployeeCode, &c.EmployeeEmail,
		&c.ReviewerName,
	)
	return c, err
}

// Create implements attendance.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, c attendance.Correction) (attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to generate correction id: %w", err)
	}

	query := `
		INSERT INTO attendance_corrections (
			id, attendance_id, profile_id, requested_by,
			original_check_in, original_check_out, corrected_check_in, corrected_check_out,
			reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = q.Exec(ctx, query,
		id.String(), c.AttendanceID, c.ProfileID, c.RequestedBy,
		c.OriginalCheckIn, c.OriginalCheckOut, c.CorrectedCheckIn, c.CorrectedCheckOut,
		c.Reason, attendance.CorrectionPending,
	)
	if err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements attendance.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCorrection(q.QueryRow(ctx, correctionSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Correction{}, attendance.ErrCorrectionNotFound
		}
		return attendance.Correction{}, fmt.Errorf("failed to get correction: %w", err)
	}
	return c, nil
}

// Review implements attendance.CorrectionRepository.
func (r *correctionRepository) Review(ctx context.Context, id string, status attendance.CorrectionStatus, reviewerID string, reviewedAt time.Time, notes *string) (attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_corrections
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_notes = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`
	tag, err := q.Exec(ctx, query, status, reviewerID, reviewedAt, notes, id)
	if err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to review correction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return attendance.Correction{}, err
		}
		return attendance.Correction{}, attendance.ErrCorrectionNotPending
	}

	return r.GetByID(ctx, id)
}

// List implements attendance.CorrectionRepository.
func (r *correctionRepository) List(ctx context.Context, filter attendance.CorrectionFilter) ([]attendance.Correction, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.ProfileID != nil && *filter.ProfileID != "" {
		baseWhere += fmt.Sprintf(" AND c.profile_id = $%d", argIdx)
		args = append(args, *filter.ProfileID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND c.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_corrections c WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count corrections: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, correctionSelect, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []attendance.Correction
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate corrections: %w", err)
	}

	return corrections, total, nil
}
