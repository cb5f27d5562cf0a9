package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jwtauth/internal/config"
	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Claims represents the JWT claims of an issued session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

type tokenIssuer struct {
	cfg   config.JWTConfig
	store port.RefreshTokenStore
}

// NewTokenIssuer creates a SessionTokenIssuer signing HS256 tokens.
// store may be nil, in which case refresh tokens are not recorded.
func NewTokenIssuer(cfg config.JWTConfig, store port.RefreshTokenStore) port.SessionTokenIssuer {
	return &tokenIssuer{cfg: cfg, store: store}
}

func (s *tokenIssuer) CreateToken(ctx context.Context, userID uuid.UUID) (*domain.SessionToken, error) {
	// JWT timestamps have second precision; keep the reported expiries identical.
	now := time.Now().UTC().Truncate(time.Second)
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiry)

	accessToken, _, err := s.sign(userID, audienceAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshToken, refreshID, err := s.sign(userID, audienceRefresh, now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, refreshID, userID, s.cfg.RefreshTokenExpiry); err != nil {
			return nil, fmt.Errorf("storing refresh token: %w", err)
		}
	}

	return &domain.SessionToken{
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
		IssuedAt:           now,
	}, nil
}

func (s *tokenIssuer) sign(userID uuid.UUID, audience string, issuedAt, expiresAt time.Time) (signed, tokenID string, err error) {
	tokenID = uuid.New().String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        tokenID,
			Audience:  jwt.ClaimStrings{audience},
		},
		UserID: userID,
	}

	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}
