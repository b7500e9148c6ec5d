package domain

import "time"

// TokenClaims is the decoded content of a signed session token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Platform  Platform
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginOutcome classifies a login attempt for the audit trail.
type LoginOutcome string

const (
	OutcomeSuccess           LoginOutcome = "success"
	OutcomeUserNotExists     LoginOutcome = "user_not_exists"
	OutcomeIncorrectPassword LoginOutcome = "incorrect_password"
	OutcomeAccountLocked     LoginOutcome = "account_locked"
	OutcomeLogout            LoginOutcome = "logout"
)

// LoginAudit is one entry in the login audit trail.
type LoginAudit struct {
	Username   string
	Platform   Platform
	Outcome    LoginOutcome
	RetryCount int
	At         time.Time
}
