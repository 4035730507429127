package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// employeeIDLockKey identifies the advisory lock guarding employee id allocation.
const employeeIDLockKey int64 = 0x44414730 // "DAG0"

const profileColumns = `
	p.id, p.email, p.full_name, p.employee_id, p.role, p.department_id,
	p.phone, p.avatar_url, p.password_hash, p.is_active, p.created_at, p.updated_at,
	d.name AS department_name
`

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.EmployeeID, &p.Role, &p.DepartmentID,
		&p.Phone, &p.AvatarURL, &p.PasswordHash, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.DepartmentName,
	)
	return p, err
}

func mapProfileWriteError(err error) error {
	switch {
	case uniqueViolationOn(err, "uniq_profiles_email"):
		return profile.ErrEmailExists
	case uniqueViolationOn(err, "uniq_profiles_employee_id"):
		return profile.ErrEmployeeIDTaken
	}
	return err
}

// Create implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, newProfile profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to generate profile id: %w", err)
	}

	query := `
		INSERT INTO profiles (
			id, email, full_name, employee_id, role, department_id, phone, avatar_url, password_hash, is_active
		) VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var createdID string
	err = q.QueryRow(ctx, query,
		id.String(),
		newProfile.Email,
		newProfile.FullName,
		newProfile.EmployeeID,
		newProfile.Role,
		newProfile.DepartmentID,
		newProfile.Phone,
		newProfile.AvatarURL,
		newProfile.PasswordHash,
		newProfile.IsActive,
	).Scan(&createdID)
	if err != nil {
		if mapped := mapProfileWriteError(err); mapped != err {
			return profile.Profile{}, mapped
		}
		return profile.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return r.GetByID(ctx, createdID)
}

func (r *profileRepositoryImpl) getOne(ctx context.Context, where string, arg any) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN departments d ON d.id = p.department_id
		WHERE ` + where

	p, err := scanProfile(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetByID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

// GetByEmail implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByEmail(ctx context.Context, email string) (profile.Profile, error) {
	return r.getOne(ctx, "LOWER(p.email) = LOWER($1)", email)
}

// GetByEmployeeID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (profile.Profile, error) {
	return r.getOne(ctx, "p.employee_id = $1", employeeID)
}

// Update implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET full_name = $1, role = $2, department_id = $3, phone = $4, avatar_url = $5,
			is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query, p.FullName, p.Role, p.DepartmentID, p.Phone, p.AvatarURL, p.IsActive, p.ID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.Profile{}, profile.ErrProfileNotFound
	}

	return r.GetByID(ctx, p.ID)
}

// UpdatePassword implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// AssignEmployeeID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) AssignEmployeeID(ctx context.Context, id string, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET employee_id = $1, updated_at = NOW()
		WHERE id = $2 AND employee_id IS NULL
	`
	tag, err := q.Exec(ctx, query, employeeID, id)
	if err != nil {
		if mapped := mapProfileWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to assign employee id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already assigned
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check profile: %w", err)
		}
		if !exists {
			return profile.ErrProfileNotFound
		}
		return profile.ErrEmployeeIDImmutable
	}
	return nil
}

// ListEmployeeIDs implements profile.ProfileRepository.
func (r *profileRepositoryImpl) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM profiles WHERE employee_id LIKE $1`, profile.EmployeeIDPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}

// LockEmployeeIDAllocation implements profile.ProfileRepository.
func (r *profileRepositoryImpl) LockEmployeeIDAllocation(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, employeeIDLockKey); err != nil {
		return fmt.Errorf("failed to lock employee id allocation: %w", err)
	}
	return nil
}

// ListMissingEmployeeID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) ListMissingEmployeeID(ctx context.Context) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN departments d ON d.id = p.department_id
		WHERE p.role = $1 AND p.employee_id IS NULL
		ORDER BY p.created_at ASC
	`
	rows, err := q.Query(ctx, query, profile.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles without employee id: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// List implements profile.ProfileRepository.
func (r *profileRepositoryImpl) List(ctx context.Context, filter profile.ProfileFilter) ([]profile.Profile, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND p.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND p.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND p.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (p.full_name ILIKE $%d OR p.email ILIKE $%d OR p.employee_id ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM profiles p WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM profiles p
		LEFT JOIN departments d ON d.id = p.department_id
		WHERE %s
		ORDER BY p.full_name ASC, p.id ASC
		LIMIT $%d OFFSET $%d
	`, profileColumns, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, total, nil
}
