package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

// UserService implements account administration: listing, role changes and
// superadmin seeding.
type UserService struct {
	users      ports.UserRepository
	audit      ports.AuditRecorder
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewUserService(users ports.UserRepository, audit ports.AuditRecorder, bcryptCost int, log zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		audit:      audit,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// ChangeRole sets the role of targetID to newRole, subject to authorizeRoleChange.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Identity, targetID, newRole string) (*domain.User, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	next, err := domain.ParseRole(newRole)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRoleChange(actor.Role, target.Role, next); err != nil {
		return nil, err
	}
	if target.Role == next {
		return target, nil
	}
	if target.Role == domain.RoleSuperAdmin {
		n, err := s.users.CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return nil, fmt.Errorf("change role: %w", err)
		}
		if n <= 1 {
			return nil, domain.ErrLastSuperAdmin
		}
	}

	now := s.now().UTC()
	if err := s.users.UpdateRole(ctx, target.ID, next, now); err != nil {
		return nil, err
	}

	previous := target.Role
	target.Role = next
	target.UpdatedAt = now

	s.audit.Enqueue(domain.AuditEvent{
		Action:    domain.AuditRoleChanged,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		TargetID:  target.ID,
		Detail:    map[string]string{"from": string(previous), "to": string(next)},
		Timestamp: now,
	})
	s.log.Info().
		Str("actor_id", actor.UserID).
		Str("target_id", target.ID).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("user role changed")
	return target, nil
}

// SeedSuperAdmin creates the superadmin account unless one already exists.
// It reports whether an account was created.
func (s *UserService) SeedSuperAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return false, domain.ErrMissingFields
	}

	n, err := s.users.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf("seed superadmin: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		s.log.Warn().Str("email", email).Str("username", username).
			Msg("superadmin seed skipped: username or email belongs to another account")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed superadmin: %w", err)
	}

	s.audit.Enqueue(domain.AuditEvent{
		Action:    domain.AuditSuperAdminSeeded,
		TargetID:  created.ID,
		Detail:    map[string]string{"email": created.Email},
		Timestamp: now,
	})
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("superadmin seeded")
	return true, nil
}
