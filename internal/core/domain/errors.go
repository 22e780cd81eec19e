package domain

import "fmt"

// ErrorKind classifies a domain failure so the transport layer can pick a status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindTooManyAttempts
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyAttempts:
		return "too_many_attempts"
	default:
		return "unknown"
	}
}

// Error is a failure with a message that is safe to show to API clients.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrMissingFields      = newError(KindValidation, "Please fill all fields")
	ErrInvalidRole        = newError(KindValidation, "Invalid role")
	ErrInvalidStatus      = newError(KindValidation, "Invalid status filter")
	ErrInvalidID          = newError(KindValidation, "Invalid id")
	ErrPasswordTooLong    = newError(KindValidation, "Password must not exceed 72 bytes")
	ErrUserExists         = newError(KindConflict, "Username or Email already exists")
	ErrRequestExists      = newError(KindConflict, "Email or Username already exists or is pending approval")
	ErrApprovedUserExists = newError(KindConflict, "User already exists")
	ErrRequestProcessed   = newError(KindConflict, "Request has already been processed")
	ErrInvalidCredentials = newError(KindAuth, "Invalid credentials")
	ErrInvalidToken       = newError(KindAuth, "Invalid or expired token")
	ErrMissingToken       = newError(KindAuth, "Missing or malformed token")
	ErrInvalidPassKey     = newError(KindAuth, "Invalid Admin PassKey")
	ErrAdminSelfRegister  = newError(KindForbidden, "Admin registration requires approval")
	ErrSuperAdminTarget   = newError(KindForbidden, "Only Super Admins can modify Super Admin accounts")
	ErrAdminTargetNotUser = newError(KindForbidden, "Admins can only modify roles of regular users")
	ErrSuperAdminGrant    = newError(KindForbidden, "Only Super Admins can grant the Super Admin role")
	ErrLastSuperAdmin     = newError(KindForbidden, "Cannot demote the last Super Admin")
	ErrUserNotFound       = newError(KindNotFound, "User not found")
	ErrRequestNotFound    = newError(KindNotFound, "Request not found")
	ErrTooManyAttempts    = newError(KindTooManyAttempts, "Too many failed login attempts, try again later")
)

// AccessDenied reports that role may not use the operation.
func AccessDenied(role Role) *Error {
	return newError(KindForbidden, fmt.Sprintf("Access denied for role: %s", role))
}
