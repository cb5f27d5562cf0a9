package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local account. Social sign-ins are keyed by email.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	IsSocialAuth bool      `db:"is_social_auth" json:"is_social_auth"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name, collapsing the single-token case.
func (u *User) FullName() string {
	if u.LastName == "" || u.LastName == u.FirstName {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SessionToken is a freshly minted access/refresh pair. It is never reused.
type SessionToken struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
	IssuedAt           time.Time `json:"issued_at"`
}

// AccessTokenLifetime returns the access token lifetime relative to issuance.
func (t *SessionToken) AccessTokenLifetime() time.Duration {
	return t.AccessTokenExpiry.Sub(t.IssuedAt)
}

// RefreshTokenLifetime returns the refresh token lifetime relative to issuance.
func (t *SessionToken) RefreshTokenLifetime() time.Duration {
	return t.RefreshTokenExpiry.Sub(t.IssuedAt)
}
