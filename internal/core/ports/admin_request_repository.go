package ports

import (
	"context"
	"time"

	"github.com/excellense/api/internal/core/domain"
)

// RequestDecision carries the fields written when a request leaves the pending state.
type RequestDecision struct {
	Status          domain.RequestStatus
	RejectionReason string
	DecidedBy       string
	DecidedAt       time.Time
}

// AdminRequestRepository handles admin request persistence.
type AdminRequestRepository interface {
	// Create stores a new request. Username and email collisions with other
	// requests are reported as domain.ErrRequestExists.
	Create(ctx context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error)
	FindByID(ctx context.Context, id string) (*domain.AdminRequest, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// List returns requests in the given status, newest first.
	List(ctx context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error)
	// Decide atomically moves a request from pending to decision.Status. It returns
	// domain.ErrRequestProcessed when the request is no longer pending.
	Decide(ctx context.Context, id string, decision RequestDecision) (*domain.AdminRequest, error)
	// Reopen moves a request back to pending. Used to roll back a failed approval.
	Reopen(ctx context.Context, id string) error
}
