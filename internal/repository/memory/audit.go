package memory

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
)

type auditRepository struct {
	store *Store
}

func (s *Store) Audit() audit.AuditRepository {
	return &auditRepository{store: s}
}

func (r *auditRepository) Create(ctx context.Context, entry audit.Log) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("audit.Create"); err != nil {
		return err
	}
	entry.ID = r.store.newID()
	entry.CreatedAt = r.store.now()
	r.store.data.auditLogs = append(r.store.data.auditLogs, entry)
	return nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID string) ([]audit.Log, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []audit.Log
	for i := len(r.store.data.auditLogs) - 1; i >= 0; i-- {
		entry := r.store.data.auditLogs[i]
		if entry.EntityType == entityType && entry.EntityID != nil && *entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}
