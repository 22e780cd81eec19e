package ports

import (
	"context"

	"github.com/excellense/api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// List returns the most recent events, newest first.
	List(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Enqueue(event domain.AuditEvent)
}

// AuditService writes and reads the audit trail.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	List(ctx context.Context, actor domain.Identity, limit int) ([]*domain.AuditEvent, error)
}
