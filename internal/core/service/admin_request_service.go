package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

// AdminRequestService runs the pending -> approved | rejected workflow for
// admin registrations.
type AdminRequestService struct {
	requests   ports.AdminRequestRepository
	users      ports.UserRepository
	audit      ports.AuditRecorder
	passKey    string
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewAdminRequestService(
	requests ports.AdminRequestRepository,
	users ports.UserRepository,
	audit ports.AuditRecorder,
	passKey string,
	bcryptCost int,
	log zerolog.Logger,
) *AdminRequestService {
	return &AdminRequestService{
		requests:   requests,
		users:      users,
		audit:      audit,
		passKey:    passKey,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// Submit files a new pending request. The password is hashed now so the
// plaintext never reaches storage.
func (s *AdminRequestService) Submit(ctx context.Context, username, email, password, passKey string) (*domain.AdminRequest, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" || passKey == "" {
		return nil, domain.ErrMissingFields
	}
	if s.passKey == "" || subtle.ConstantTimeCompare([]byte(passKey), []byte(s.passKey)) != 1 {
		return nil, domain.ErrInvalidPassKey
	}

	userTaken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("submit admin request: %w", err)
	}
	requestTaken, err := s.requests.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("submit admin request: %w", err)
	}
	if userTaken || requestTaken {
		return nil, domain.ErrRequestExists
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	created, err := s.requests.Create(ctx, &domain.AdminRequest{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.RequestPending,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrRequestExists) {
			return nil, domain.ErrRequestExists
		}
		return nil, fmt.Errorf("submit admin request: %w", err)
	}

	s.log.Info().Str("request_id", created.ID).Str("email", created.Email).Msg("admin request submitted")
	return created, nil
}

// Approve claims a pending request and creates the admin account from it.
// The claim is a conditional update, so two concurrent approvals cannot both
// get past it; the unique email index on users backs that up.
func (s *AdminRequestService) Approve(ctx context.Context, actor domain.Identity, requestID string) (*domain.User, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(domain.RequestApproved) {
		return nil, domain.ErrRequestProcessed
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrApprovedUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("approve admin request: %w", err)
	}

	now := s.now().UTC()
	if _, err := s.requests.Decide(ctx, req.ID, ports.RequestDecision{
		Status:    domain.RequestApproved,
		DecidedBy: actor.UserID,
		DecidedAt: now,
	}); err != nil {
		return nil, err
	}

	admin, err := s.users.Create(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if reopenErr := s.requests.Reopen(ctx, req.ID); reopenErr != nil {
			s.log.Error().Err(reopenErr).Str("request_id", req.ID).Msg("failed to reopen admin request after failed approval")
		}
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrApprovedUserExists
		}
		return nil, fmt.Errorf("approve admin request: create user: %w", err)
	}

	s.audit.Enqueue(domain.AuditEvent{
		Action:    domain.AuditRequestApproved,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		TargetID:  req.ID,
		Detail:    map[string]string{"email": req.Email, "user_id": admin.ID},
		Timestamp: now,
	})
	s.log.Info().Str("request_id", req.ID).Str("email", req.Email).Msg("admin request approved")
	return admin, nil
}

// Reject closes a pending request. The record is kept with its reason.
func (s *AdminRequestService) Reject(ctx context.Context, actor domain.Identity, requestID, reason string) (*domain.AdminRequest, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(domain.RequestRejected) {
		return nil, domain.ErrRequestProcessed
	}

	now := s.now().UTC()
	updated, err := s.requests.Decide(ctx, req.ID, ports.RequestDecision{
		Status:          domain.RequestRejected,
		RejectionReason: reason,
		DecidedBy:       actor.UserID,
		DecidedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Enqueue(domain.AuditEvent{
		Action:    domain.AuditRequestRejected,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		TargetID:  req.ID,
		Detail:    map[string]string{"email": req.Email, "reason": reason},
		Timestamp: now,
	})
	s.log.Info().Str("request_id", req.ID).Str("reason", reason).Msg("admin request rejected")
	return updated, nil
}

// List returns requests in status (pending when empty), newest first.
func (s *AdminRequestService) List(ctx context.Context, actor domain.Identity, status string) ([]*domain.AdminRequest, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}

	st := domain.RequestPending
	if status != "" {
		st = domain.RequestStatus(status)
	}
	if !st.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.requests.List(ctx, st)
}
