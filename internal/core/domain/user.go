package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User models an account on one platform surface. Users are never
// physically deleted; IsDeleted is a tombstone observed by all lookups.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	RoleID       string
	Platform     Platform
	IsActive     bool
	IsDeleted    bool

	// Failed-login bookkeeping. LoginRetryLimit counts consecutive
	// failures and resets to zero on the next successful login.
	// LockedAt is set when the counter reaches the lockout threshold.
	LoginRetryLimit int
	LockedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the profile shape returned to callers. It never carries
// the password hash or throttle state.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	RoleID    string    `json:"role_id"`
	Platform  Platform  `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicView strips a User down to its caller-visible profile.
func PublicView(u *User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		RoleID:    u.RoleID,
		Platform:  u.Platform,
		CreatedAt: u.CreatedAt,
	}
}

// VerifyPassword compares a plaintext candidate against the stored hash.
// bcrypt's comparison is constant-time; neither value is ever logged.
func VerifyPassword(u *User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// HashPassword produces a bcrypt hash for storage at registration time.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
