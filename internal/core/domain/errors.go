package domain

import "errors"

// Expected operational failures. Each maps to a stable message and HTTP
// status in the API error handler; callers can branch with errors.Is.
var (
	ErrUserNotExists     = errors.New("user not exists")
	ErrUserExists        = errors.New("user already exists")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrAccountLocked     = errors.New("account locked")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidInput      = errors.New("invalid input")
)

// ErrPolicyConflict marks an ambiguous route policy table: two distinct
// patterns of equal specificity can match the same path. Surfaced at
// policy load time, never resolved silently per request.
var ErrPolicyConflict = errors.New("route policy conflict")

// ErrInfrastructureUnavailable wraps store and timeout failures so the
// transport layer can answer 503 instead of misreporting an auth denial.
var ErrInfrastructureUnavailable = errors.New("infrastructure unavailable")
