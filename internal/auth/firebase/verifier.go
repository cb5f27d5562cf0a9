package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

// tokenVerifier is the subset of the Admin SDK auth client used here.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Verifier validates Firebase ID tokens with the Firebase Admin SDK.
type Verifier struct {
	client tokenVerifier
}

// NewVerifier initializes a Firebase app for projectID. An empty credentialsFile
// falls back to Application Default Credentials.
func NewVerifier(ctx context.Context, projectID, credentialsFile string, opts ...option.ClientOption) (*Verifier, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth client: %w", err)
	}

	return &Verifier{client: client}, nil
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.IdentityClaims, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, classifyError(err)
	}
	return claimsFromToken(token), nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderFirebase)
}

// classifyError separates rejected tokens from failures to reach Google's key endpoint.
func classifyError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("verifying firebase id token: %w", err)
	case firebaseauth.IsCertificateFetchFailed(err):
		return fmt.Errorf("fetching firebase signing certificates: %w", err)
	case firebaseauth.IsIDTokenExpired(err),
		firebaseauth.IsIDTokenInvalid(err),
		firebaseauth.IsIDTokenRevoked(err):
		return fmt.Errorf("%w: %s", domain.ErrSocialAuthTokenInvalid, err.Error())
	default:
		// e.g. "project id not available"
		return fmt.Errorf("verifying firebase id token: %w", err)
	}
}

func claimsFromToken(token *firebaseauth.Token) *port.IdentityClaims {
	claims := &port.IdentityClaims{Subject: token.UID}
	if claims.Subject == "" {
		claims.Subject = token.Subject
	}
	claims.Email, _ = token.Claims["email"].(string)
	claims.EmailVerified, _ = token.Claims["email_verified"].(bool)
	claims.DisplayName, _ = token.Claims["name"].(string)
	claims.PictureURL, _ = token.Claims["picture"].(string)
	return claims
}

// Compile-time check.
var _ port.IdentityTokenVerifier = (*Verifier)(nil)
