package profile

import "context"

// ProfileRepository defines data access for profiles.
type ProfileRepository interface {
	// Create inserts a profile. Returns ErrEmailExists or ErrEmployeeIDTaken on unique violations.
	Create(ctx context.Context, profile Profile) (Profile, error)

	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)

	// GetByEmployeeID looks a profile up by its DAG##### identifier
	GetByEmployeeID(ctx context.Context, employeeID string) (Profile, error)

	// Update writes the mutable columns. employee_id is never written here.
	Update(ctx context.Context, profile Profile) (Profile, error)

	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// AssignEmployeeID sets employee_id only while it is still NULL.
	AssignEmployeeID(ctx context.Context, id string, employeeID string) error

	// ListEmployeeIDs returns every assigned id starting with the DAG prefix
	ListEmployeeIDs(ctx context.Context) ([]string, error)

	// LockEmployeeIDAllocation serializes id allocation until the surrounding transaction ends
	LockEmployeeIDAllocation(ctx context.Context) error

	// ListMissingEmployeeID returns role=employee profiles without an employee_id
	ListMissingEmployeeID(ctx context.Context) ([]Profile, error)

	List(ctx context.Context, filter ProfileFilter) ([]Profile, int64, error)
}
