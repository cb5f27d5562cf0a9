// Package redis persists issued refresh tokens in Redis, keyed by token ID.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"jwtauth/internal/config"
	"jwtauth/internal/port"
)

// NewClient creates a go-redis client and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type refreshTokenStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRefreshTokenStore creates a Redis-backed RefreshTokenStore.
func NewRefreshTokenStore(rdb *goredis.Client, prefix string) port.RefreshTokenStore {
	return &refreshTokenStore{rdb: rdb, prefix: prefix}
}

func (s *refreshTokenStore) Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("refreshTokenStore.Save: token id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("refreshTokenStore.Save: ttl must be positive, got %s", ttl)
	}
	if err := s.rdb.Set(ctx, s.prefix+tokenID, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("refreshTokenStore.Save: %w", err)
	}
	return nil
}
