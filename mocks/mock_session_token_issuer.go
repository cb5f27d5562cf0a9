package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"jwtauth/internal/domain"
)

// MockSessionTokenIssuer is a mock implementation of port.SessionTokenIssuer.
type MockSessionTokenIssuer struct {
	mock.Mock
}

func (m *MockSessionTokenIssuer) CreateToken(ctx context.Context, userID uuid.UUID) (*domain.SessionToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionToken), args.Error(1)
}
