package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jwtauth/internal/domain"
)

// SessionTokenIssuer mints the application's access/refresh token pair.
type SessionTokenIssuer interface {
	CreateToken(ctx context.Context, userID uuid.UUID) (*domain.SessionToken, error)
}

// RefreshTokenStore records issued refresh tokens until they expire.
type RefreshTokenStore interface {
	Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
}
