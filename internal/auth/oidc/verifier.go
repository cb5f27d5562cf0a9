package oidc

import (
	"context"
	"fmt"
	"strings"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

// Verifier validates ID tokens from any OpenID Connect issuer using discovery and JWKS.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewVerifier fetches the issuer's discovery document. It makes an outbound
// request at startup and fails if the issuer is unreachable.
func NewVerifier(ctx context.Context, issuerURL, clientID string) (*Verifier, error) {
	provider, err := gooidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", issuerURL, err)
	}
	return &Verifier{verifier: provider.Verifier(&gooidc.Config{ClientID: clientID})}, nil
}

// NewVerifierWithKeySet builds a verifier from a known key set, skipping discovery.
func NewVerifierWithKeySet(issuerURL, clientID string, keySet gooidc.KeySet) *Verifier {
	return &Verifier{verifier: gooidc.NewVerifier(issuerURL, keySet, &gooidc.Config{ClientID: clientID})}
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.IdentityClaims, error) {
	token, err := v.verifier.Verify(ctx, idToken)
	if err != nil {
		if ctx.Err() != nil || strings.Contains(err.Error(), "fetching keys") {
			return nil, fmt.Errorf("verifying oidc id token: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSocialAuthTokenInvalid, err.Error())
	}

	var c idTokenClaims
	if err := token.Claims(&c); err != nil {
		return nil, fmt.Errorf("%w: extracting id token claims: %s", domain.ErrSocialAuthTokenInvalid, err.Error())
	}

	name := c.Name
	if name == "" {
		name = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	}

	return &port.IdentityClaims{
		Subject:       token.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		DisplayName:   name,
		PictureURL:    c.Picture,
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderOIDC)
}

// Compile-time check.
var _ port.IdentityTokenVerifier = (*Verifier)(nil)
