package department

import "context"

type DepartmentService interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	List(ctx context.Context, includeInactive bool) ([]DepartmentResponse, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Deactivate(ctx context.Context, id string) error
}
