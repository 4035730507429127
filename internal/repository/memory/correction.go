package memory

import (
	"context"
	"slices"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
)

type correctionRepository struct {
	store *Store
}

func (s *Store) Corrections() attendance.CorrectionRepository {
	return &correctionRepository{store: s}
}

// withJoins must be called with mu held.
func (r *correctionRepository) withJoins(c attendance.Correction) attendance.Correction {
	c.EmployeeName, c.EmployeeCode, c.EmployeeEmail, c.ReviewerName = nil, nil, nil, nil
	if p, ok := r.store.data.profiles[c.ProfileID]; ok {
		name, email := p.FullName, p.Email
		c.EmployeeName = &name
		c.EmployeeCode = p.EmployeeID
		c.EmployeeEmail = &email
	}
	if c.ReviewedBy != nil {
		if p, ok := r.store.data.profiles[*c.ReviewedBy]; ok {
			name := p.FullName
			c.ReviewerName = &name
		}
	}
	return c
}

func (r *correctionRepository) Create(ctx context.Context, c attendance.Correction) (attendance.Correction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("correction.Create"); err != nil {
		return attendance.Correction{}, err
	}

	now := r.store.now()
	c.ID = r.store.newID()
	c.Status = attendance.CorrectionPending
	c.CreatedAt = now
	c.UpdatedAt = now
	r.store.data.corrections[c.ID] = c
	return r.withJoins(c), nil
}

func (r *correctionRepository) GetByID(ctx context.Context, id string) (attendance.Correction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.data.corrections[id]
	if !ok {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	return r.withJoins(c), nil
}

func (r *correctionRepository) Review(ctx context.Context, id string, status attendance.CorrectionStatus, reviewerID string, reviewedAt time.Time, notes *string) (attendance.Correction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("correction.Review"); err != nil {
		return attendance.Correction{}, err
	}

	c, ok := r.store.data.corrections[id]
	if !ok {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	if c.Status != attendance.CorrectionPending {
		return attendance.Correction{}, attendance.ErrCorrectionNotPending
	}

	c.Status = status
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &reviewedAt
	c.ReviewNotes = notes
	c.UpdatedAt = r.store.now()
	r.store.data.corrections[id] = c
	return r.withJoins(c), nil
}

func (r *correctionRepository) List(ctx context.Context, filter attendance.CorrectionFilter) ([]attendance.Correction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []attendance.Correction
	for _, c := range r.store.data.corrections {
		if filter.ProfileID != nil && *filter.ProfileID != "" && c.ProfileID != *filter.ProfileID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(c.Status) != *filter.Status {
			continue
		}
		matched = append(matched, r.withJoins(c))
	}
	slices.SortFunc(matched, func(a, b attendance.Correction) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}
