package postgresql

import (
	"context"
	"fmt"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

// Create implements audit.AuditRepository.
func (r *auditRepository) Create(ctx context.Context, entry audit.Log) error {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit log id: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = q.Exec(ctx, query,
		id.String(), entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		nullableJSON(entry.OldValues), nullableJSON(entry.NewValues), entry.IPAddress, entry.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListByEntity implements audit.AuditRepository.
func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID string) ([]audit.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.Log
	for rows.Next() {
		var l audit.Log
		var oldValues, newValues []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.EntityType, &l.EntityID, &oldValues, &newValues, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		l.OldValues, l.NewValues = oldValues, newValues
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// nullableJSON returns nil for empty payloads so the column is stored as NULL.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
