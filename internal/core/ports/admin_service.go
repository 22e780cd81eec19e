package ports

import (
	"context"

	"github.com/excellense/api/internal/core/domain"
)

// AdminRequestService drives the admin registration approval workflow.
type AdminRequestService interface {
	Submit(ctx context.Context, username, email, password, passKey string) (*domain.AdminRequest, error)
	Approve(ctx context.Context, actor domain.Identity, requestID string) (*domain.User, error)
	Reject(ctx context.Context, actor domain.Identity, requestID, reason string) (*domain.AdminRequest, error)
	List(ctx context.Context, actor domain.Identity, status string) ([]*domain.AdminRequest, error)
}

// UserService covers account administration.
type UserService interface {
	ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error)
	ChangeRole(ctx context.Context, actor domain.Identity, targetID, newRole string) (*domain.User, error)
	SeedSuperAdmin(ctx context.Context, username, email, password string) (bool, error)
}
