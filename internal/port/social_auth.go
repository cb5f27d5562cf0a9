package port

import "context"

// IdentityClaims holds the verified claims from a social identity provider.
type IdentityClaims struct {
	Subject       string // Provider-specific user ID (e.g. Firebase UID or Google "sub")
	Email         string
	EmailVerified bool
	DisplayName   string
	PictureURL    string
}

// IdentityTokenVerifier validates an ID token from a social identity provider.
// A rejected token yields an error matching domain.ErrSocialAuthTokenInvalid;
// any other error is an infrastructure failure.
type IdentityTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*IdentityClaims, error)
	Provider() string
}
