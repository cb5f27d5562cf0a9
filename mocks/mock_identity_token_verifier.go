package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jwtauth/internal/port"
)

// MockIdentityTokenVerifier is a mock implementation of port.IdentityTokenVerifier.
type MockIdentityTokenVerifier struct {
	mock.Mock
}

func (m *MockIdentityTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*port.IdentityClaims, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IdentityClaims), args.Error(1)
}

func (m *MockIdentityTokenVerifier) Provider() string {
	args := m.Called()
	return args.String(0)
}
