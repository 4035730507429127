package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

type profileRepository struct {
	store *Store
}

func (s *Store) Profiles() profile.ProfileRepository {
	return &profileRepository{store: s}
}

// withDepartment must be called with mu held.
func (s *Store) withDepartment(p profile.Profile) profile.Profile {
	p.DepartmentName = nil
	if p.DepartmentID != nil {
		if d, ok := s.data.departments[*p.DepartmentID]; ok {
			name := d.Name
			p.DepartmentName = &name
		}
	}
	return p
}

func (r *profileRepository) emailTaken(email, exceptID string) bool {
	for _, p := range r.store.data.profiles {
		if p.ID != exceptID && strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}

func (r *profileRepository) employeeIDTaken(employeeID, exceptID string) bool {
	for _, p := range r.store.data.profiles {
		if p.ID != exceptID && p.EmployeeID != nil && *p.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

func (r *profileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("profile.Create"); err != nil {
		return profile.Profile{}, err
	}

	if r.emailTaken(p.Email, "") {
		return profile.Profile{}, profile.ErrEmailExists
	}
	if p.EmployeeID != nil && r.employeeIDTaken(*p.EmployeeID, "") {
		return profile.Profile{}, profile.ErrEmployeeIDTaken
	}

	now := r.store.now()
	p.ID = r.store.newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.data.profiles[p.ID] = p
	return r.store.withDepartment(p), nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.data.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return r.store.withDepartment(p), nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.data.profiles {
		if strings.EqualFold(p.Email, email) {
			return r.store.withDepartment(p), nil
		}
	}
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (r *profileRepository) GetByEmployeeID(ctx context.Context, employeeID string) (profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.data.profiles {
		if p.EmployeeID != nil && *p.EmployeeID == employeeID {
			return r.store.withDepartment(p), nil
		}
	}
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (r *profileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("profile.Update"); err != nil {
		return profile.Profile{}, err
	}

	existing, ok := r.store.data.profiles[p.ID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	if r.emailTaken(p.Email, p.ID) {
		return profile.Profile{}, profile.ErrEmailExists
	}

	existing.Email = p.Email
	existing.FullName = p.FullName
	existing.Role = p.Role
	existing.DepartmentID = p.DepartmentID
	existing.Phone = p.Phone
	existing.AvatarURL = p.AvatarURL
	existing.IsActive = p.IsActive
	existing.UpdatedAt = r.store.now()
	r.store.data.profiles[p.ID] = existing
	return r.store.withDepartment(existing), nil
}

func (r *profileRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.data.profiles[id]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.PasswordHash = &passwordHash
	p.UpdatedAt = r.store.now()
	r.store.data.profiles[id] = p
	return nil
}

func (r *profileRepository) AssignEmployeeID(ctx context.Context, id string, employeeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("profile.AssignEmployeeID"); err != nil {
		return err
	}

	p, ok := r.store.data.profiles[id]
	if !ok {
		return profile.ErrProfileNotFound
	}
	if p.EmployeeID != nil {
		return profile.ErrEmployeeIDImmutable
	}
	if r.employeeIDTaken(employeeID, id) {
		return profile.ErrEmployeeIDTaken
	}
	p.EmployeeID = &employeeID
	p.UpdatedAt = r.store.now()
	r.store.data.profiles[id] = p
	return nil
}

func (r *profileRepository) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ids := []string{}
	for _, p := range r.store.data.profiles {
		if p.EmployeeID != nil && strings.HasPrefix(*p.EmployeeID, profile.EmployeeIDPrefix) {
			ids = append(ids, *p.EmployeeID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// LockEmployeeIDAllocation is a no-op, the store mutex already serializes writers.
func (r *profileRepository) LockEmployeeIDAllocation(ctx context.Context) error {
	return nil
}

func (r *profileRepository) ListMissingEmployeeID(ctx context.Context) ([]profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []profile.Profile
	for _, p := range r.store.data.profiles {
		if p.NeedsEmployeeID() {
			out = append(out, r.store.withDepartment(p))
		}
	}
	slices.SortFunc(out, func(a, b profile.Profile) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *profileRepository) List(ctx context.Context, filter profile.ProfileFilter) ([]profile.Profile, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []profile.Profile
	for _, p := range r.store.data.profiles {
		if filter.Role != nil && string(p.Role) != *filter.Role {
			continue
		}
		if filter.DepartmentID != nil && (p.DepartmentID == nil || *p.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			q := strings.ToLower(*filter.Search)
			code := ""
			if p.EmployeeID != nil {
				code = strings.ToLower(*p.EmployeeID)
			}
			if !strings.Contains(strings.ToLower(p.FullName), q) &&
				!strings.Contains(strings.ToLower(p.Email), q) &&
				!strings.Contains(code, q) {
				continue
			}
		}
		matched = append(matched, r.store.withDepartment(p))
	}
	slices.SortFunc(matched, func(a, b profile.Profile) int { return strings.Compare(a.FullName, b.FullName) })

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
