package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jwtauth/internal/domain"
)

// MockUserRepo is a mock implementation of port.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Register(ctx context.Context, firstName, lastName, email string, isSocialAuth bool) (*domain.User, error) {
	args := m.Called(ctx, firstName, lastName, email, isSocialAuth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
