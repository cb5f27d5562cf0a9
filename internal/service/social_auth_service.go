package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"jwtauth/internal/domain"
	"jwtauth/internal/observability"
	"jwtauth/internal/port"
)

// SocialLoginInput is the DTO for social login requests.
type SocialLoginInput struct {
	Token string `json:"token" binding:"required,max=8192,idtoken"`
}

// SocialLoginOutput contains the results of a social login.
type SocialLoginOutput struct {
	UserID    uuid.UUID
	Session   *domain.SessionToken
	IsNewUser bool
}

// SocialAuthService defines the social token exchange contract.
type SocialAuthService interface {
	SocialLogin(ctx context.Context, input SocialLoginInput) (*SocialLoginOutput, error)
}

// WelcomeEmailTimeout bounds how long provisioning waits on the email provider.
const WelcomeEmailTimeout = 5 * time.Second

type socialAuthService struct {
	verifier port.IdentityTokenVerifier
	userRepo port.UserRepository
	issuer   port.SessionTokenIssuer
	mailer   port.EmailSender
	metrics  *observability.Metrics
	log      *zap.Logger
	tracer   trace.Tracer
}

// NewSocialAuthService creates a new SocialAuthService.
// mailer and metrics are optional.
func NewSocialAuthService(
	verifier port.IdentityTokenVerifier,
	userRepo port.UserRepository,
	issuer port.SessionTokenIssuer,
	mailer port.EmailSender,
	metrics *observability.Metrics,
	log *zap.Logger,
) SocialAuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &socialAuthService{
		verifier: verifier,
		userRepo: userRepo,
		issuer:   issuer,
		mailer:   mailer,
		metrics:  metrics,
		log:      log,
		tracer:   otel.Tracer("jwtauth/internal/service"),
	}
}

func (s *socialAuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*SocialLoginOutput, error) {
	ctx, span := s.tracer.Start(ctx, "SocialAuthService.SocialLogin")
	defer span.End()

	output, err := s.exchange(ctx, input)
	s.metrics.RecordExchange(exchangeOutcome(output, err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "social login failed")
		return nil, err
	}

	span.SetAttributes(attribute.Bool("auth.new_user", output.IsNewUser))
	return output, nil
}

func (s *socialAuthService) exchange(ctx context.Context, input SocialLoginInput) (*SocialLoginOutput, error) {
	// 1. Reject blank tokens before any external call
	if strings.TrimSpace(input.Token) == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}

	// 2. Verify ID token
	claims, err := s.verify(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	// 3. Without an email there is nothing to look up or provision
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", domain.ErrSocialAuthTokenInvalid)
	}

	// 4. Returning user keeps the existing account
	user, err := s.findUser(ctx, claims.Email)
	if err == nil {
		session, err := s.issue(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &SocialLoginOutput{UserID: user.ID, Session: session, IsNewUser: false}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}

	// 5. New user: create account from the display name
	user, err = s.register(ctx, claims)
	if err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, user)

	// 6. Issue session tokens for the new account
	session, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &SocialLoginOutput{UserID: user.ID, Session: session, IsNewUser: true}, nil
}

func (s *socialAuthService) verify(ctx context.Context, token string) (*port.IdentityClaims, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityTokenVerifier.VerifyIDToken")
	defer span.End()

	claims, err := s.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		span.RecordError(err)
		// Rejections already carry the verifier's message.
		if errors.Is(err, domain.ErrSocialAuthTokenInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("verifying identity token: %w", err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: verifier returned no claims", domain.ErrSocialAuthTokenInvalid)
	}
	return claims, nil
}

func (s *socialAuthService) findUser(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
	}
	return user, err
}

func (s *socialAuthService) register(ctx context.Context, claims *port.IdentityClaims) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserRepository.Register")
	defer span.End()

	firstName, lastName, ok := SplitDisplayName(claims.DisplayName)
	if !ok {
		return nil, fmt.Errorf("%w: display name claim is required to create an account", domain.ErrRegistrationInvalid)
	}

	user, err := s.userRepo.Register(ctx, firstName, lastName, claims.Email, true)
	if err != nil {
		span.RecordError(err)
		// Known registration failures are surfaced to the caller unchanged; no retry.
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrRegistrationInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.log.Info("provisioned social account",
		zap.String("user_id", user.ID.String()),
		zap.String("subject", claims.Subject),
		zap.Bool("email_verified", claims.EmailVerified),
	)
	return user, nil
}

func (s *socialAuthService) issue(ctx context.Context, userID uuid.UUID) (*domain.SessionToken, error) {
	ctx, span := s.tracer.Start(ctx, "SessionTokenIssuer.CreateToken")
	defer span.End()

	session, err := s.issuer.CreateToken(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issuing session token: %w", err)
	}
	return session, nil
}

func (s *socialAuthService) sendWelcome(ctx context.Context, user *domain.User) {
	if s.mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, WelcomeEmailTimeout)
	defer cancel()
	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.FullName()); err != nil {
		s.log.Warn("failed to send welcome email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

func exchangeOutcome(output *SocialLoginOutput, err error) domain.ExchangeOutcome {
	switch {
	case err == nil && output.IsNewUser:
		return domain.OutcomeCreatedUser
	case err == nil:
		return domain.OutcomeExistingUser
	case errors.Is(err, domain.ErrSocialAuthTokenInvalid):
		return domain.OutcomeInvalidToken
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrRegistrationInvalid):
		return domain.OutcomeInvalidInput
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.OutcomeConflict
	default:
		return domain.OutcomeError
	}
}
