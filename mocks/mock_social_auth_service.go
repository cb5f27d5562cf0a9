package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"jwtauth/internal/domain"
	"jwtauth/internal/service"
)

// MockSocialAuthService is a mock implementation of service.SocialAuthService.
type MockSocialAuthService struct {
	mock.Mock
}

// NewMockSocialAuthService returns a mock whose expectations are asserted when t finishes.
func NewMockSocialAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSocialAuthService {
	m := &MockSocialAuthService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSocialAuthService) SocialLogin(ctx context.Context, input service.SocialLoginInput) (*service.SocialLoginOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*service.SocialLoginOutput)
	return out, args.Error(1)
}

// ExpectExchange stubs a successful exchange of token for a session owned by userID.
func (m *MockSocialAuthService) ExpectExchange(token string, userID uuid.UUID, session *domain.SessionToken, isNewUser bool) *mock.Call {
	return m.On("SocialLogin", mock.Anything, service.SocialLoginInput{Token: token}).
		Return(&service.SocialLoginOutput{UserID: userID, Session: session, IsNewUser: isNewUser}, nil)
}

// ExpectExchangeError stubs a failed exchange of token.
func (m *MockSocialAuthService) ExpectExchangeError(token string, err error) *mock.Call {
	return m.On("SocialLogin", mock.Anything, service.SocialLoginInput{Token: token}).Return(nil, err)
}
