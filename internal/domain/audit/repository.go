package audit

import "context"

type AuditRepository interface {
	Create(ctx context.Context, entry Log) error
	ListByEntity(ctx context.Context, entityType string, entityID string) ([]Log, error)
}
