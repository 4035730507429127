package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
)

type departmentRepository struct {
	store *Store
}

func (s *Store) Departments() department.DepartmentRepository {
	return &departmentRepository{store: s}
}

// withJoins must be called with mu held.
func (r *departmentRepository) withJoins(d department.Department) department.Department {
	d.ManagerName = nil
	if d.ManagerID != nil {
		if p, ok := r.store.data.profiles[*d.ManagerID]; ok {
			name := p.FullName
			d.ManagerName = &name
		}
	}
	d.EmployeeCount = 0
	for _, p := range r.store.data.profiles {
		if p.IsActive && p.DepartmentID != nil && *p.DepartmentID == d.ID {
			d.EmployeeCount++
		}
	}
	return d
}

func (r *departmentRepository) nameTaken(name, exceptID string) bool {
	for _, d := range r.store.data.departments {
		if d.ID != exceptID && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.nameTaken(d.Name, "") {
		return department.Department{}, department.ErrDepartmentNameExists
	}

	now := r.store.now()
	d.ID = r.store.newID()
	d.IsActive = true
	d.CreatedAt = now
	d.UpdatedAt = now
	r.store.data.departments[d.ID] = d
	return r.withJoins(d), nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.data.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return r.withJoins(d), nil
}

func (r *departmentRepository) List(ctx context.Context, includeInactive bool) ([]department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []department.Department{}
	for _, d := range r.store.data.departments {
		if !includeInactive && !d.IsActive {
			continue
		}
		out = append(out, r.withJoins(d))
	}
	slices.SortFunc(out, func(a, b department.Department) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *departmentRepository) Update(ctx context.Context, d department.Department) (department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.data.departments[d.ID]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	if r.nameTaken(d.Name, d.ID) {
		return department.Department{}, department.ErrDepartmentNameExists
	}
	existing.Name = d.Name
	existing.Description = d.Description
	existing.ManagerID = d.ManagerID
	existing.UpdatedAt = r.store.now()
	r.store.data.departments[d.ID] = existing
	return r.withJoins(existing), nil
}

func (r *departmentRepository) Deactivate(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.data.departments[id]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	d.IsActive = false
	d.UpdatedAt = r.store.now()
	r.store.data.departments[id] = d
	return nil
}
