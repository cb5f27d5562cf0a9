package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRefreshTokenStore is a mock implementation of port.RefreshTokenStore.
type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}
