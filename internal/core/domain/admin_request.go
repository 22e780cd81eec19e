package domain

import "time"

// RequestStatus is the lifecycle state of an admin registration request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// validRequestTransitions defines the admin request state machine.
// Approved and rejected are terminal.
var validRequestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestApproved, RequestRejected},
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AdminRequest is a proposal to create an admin account, awaiting a superadmin decision.
// The password is hashed at submission time and moved as-is onto the new user on approval.
type AdminRequest struct {
	ID              string        `json:"id"`
	Username        string        `json:"username"`
	Email           string        `json:"email"`
	PasswordHash    string        `json:"-"`
	Status          RequestStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	DecidedBy       string        `json:"decided_by,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
