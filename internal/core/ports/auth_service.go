package ports

import (
	"context"

	"github.com/excellense/api/internal/core/domain"
)

// AuthService covers self-service registration and sign-in.
type AuthService interface {
	Register(ctx context.Context, username, email, password, requestedRole string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, who domain.Identity) (*domain.User, error)
}

// TokenService mints and validates session tokens.
type TokenService interface {
	Issue(userID string, role domain.Role) (string, error)
	Verify(token string) (*domain.Identity, error)
}

// LoginThrottle counts failed sign-ins per email.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
