package department

import "context"

type DepartmentRepository interface {
	// Create returns ErrDepartmentNameExists when the name is taken (case-insensitive)
	Create(ctx context.Context, department Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context, includeInactive bool) ([]Department, error)
	Update(ctx context.Context, department Department) (Department, error)
	Deactivate(ctx context.Context, id string) error
}
