package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const departmentSelect = `
	SELECT d.id, d.name, d.description, d.manager_id, d.is_active, d.created_at, d.updated_at,
		   m.full_name AS manager_name,
		   (SELECT COUNT(*) FROM profiles p WHERE p.department_id = d.id AND p.is_active) AS employee_count
	FROM departments d
	LEFT JOIN profiles m ON m.id = d.manager_id
`

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.ManagerName, &d.EmployeeCount,
	)
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, newDepartment department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to generate department id: %w", err)
	}

	query := `
		INSERT INTO departments (id, name, description, manager_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`
	if _, err := q.Exec(ctx, query, id.String(), newDepartment.Name, newDepartment.Description, newDepartment.ManagerID); err != nil {
		if uniqueViolationOn(err, "uniq_departments_name") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := departmentSelect
	if !includeInactive {
		query += ` WHERE d.is_active`
	}
	query += ` ORDER BY d.name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = $1, description = $2, manager_id = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, d.Name, d.Description, d.ManagerID, d.ID)
	if err != nil {
		if uniqueViolationOn(err, "uniq_departments_name") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.Department{}, department.ErrDepartmentNotFound
	}

	return r.GetByID(ctx, d.ID)
}

// Deactivate implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE departments SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}
