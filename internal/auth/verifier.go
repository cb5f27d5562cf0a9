package auth

import (
	"context"
	"fmt"

	"jwtauth/internal/auth/firebase"
	"jwtauth/internal/auth/google"
	"jwtauth/internal/auth/oidc"
	"jwtauth/internal/config"
	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

// VerifierFactory creates an IdentityTokenVerifier from the social config.
type VerifierFactory func(ctx context.Context, cfg *config.SocialConfig) (port.IdentityTokenVerifier, error)

var verifiers = map[string]VerifierFactory{
	string(domain.AuthProviderFirebase): func(ctx context.Context, cfg *config.SocialConfig) (port.IdentityTokenVerifier, error) {
		return firebase.NewVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	},
	string(domain.AuthProviderGoogle): func(_ context.Context, cfg *config.SocialConfig) (port.IdentityTokenVerifier, error) {
		return google.NewVerifier(cfg.GoogleClientID, cfg.VerifyTimeout), nil
	},
	string(domain.AuthProviderOIDC): func(ctx context.Context, cfg *config.SocialConfig) (port.IdentityTokenVerifier, error) {
		return oidc.NewVerifier(ctx, cfg.OIDCIssuerURL, cfg.OIDCClientID)
	},
}

// RegisterVerifier registers a verifier factory by name.
func RegisterVerifier(name string, factory VerifierFactory) {
	verifiers[name] = factory
}

// NewVerifier creates the verifier selected by cfg.Verifier.
func NewVerifier(ctx context.Context, cfg *config.SocialConfig) (port.IdentityTokenVerifier, error) {
	factory, ok := verifiers[cfg.Verifier]
	if !ok {
		return nil, fmt.Errorf("unknown social verifier: %s", cfg.Verifier)
	}
	return factory(ctx, cfg)
}
