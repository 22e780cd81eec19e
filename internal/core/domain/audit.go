package domain

import "time"

// AuditAction names a privileged change worth keeping a record of.
type AuditAction string

const (
	AuditRequestApproved  AuditAction = "admin_request.approved"
	AuditRequestRejected  AuditAction = "admin_request.rejected"
	AuditRoleChanged      AuditAction = "user.role_changed"
	AuditSuperAdminSeeded AuditAction = "user.superadmin_seeded"
)

// AuditEvent records who did what to which entity.
type AuditEvent struct {
	ID        string            `json:"id"`
	Action    AuditAction       `json:"action"`
	ActorID   string            `json:"actor_id,omitempty"`
	ActorRole Role              `json:"actor_role,omitempty"`
	TargetID  string            `json:"target_id"`
	Detail    map[string]string `json:"detail,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
