package ports

import (
	"context"
	"time"

	"github.com/excellense/api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations must enforce uniqueness of username and email at the storage layer
// and report collisions as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByUsernameOrEmail reports whether any user holds either value.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
