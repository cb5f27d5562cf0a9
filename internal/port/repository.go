package port

import (
	"context"

	"jwtauth/internal/domain"
)

// UserRepository defines the contract for user persistence.
// Email lookups are case-insensitive and at most one user exists per email.
type UserRepository interface {
	// FindByEmail returns domain.ErrNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Register persists a new account. A concurrent or prior account with the
	// same email yields domain.ErrDuplicateEmail.
	Register(ctx context.Context, firstName, lastName, email string, isSocialAuth bool) (*domain.User, error)
}
