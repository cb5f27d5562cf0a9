package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jwtauth/internal/domain"
	"jwtauth/internal/port"
)

// DefaultTokenInfoURL is Google's public ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type tokenInfoResponse struct {
	Iss              string `json:"iss"`
	Aud              string `json:"aud"`
	Sub              string `json:"sub"`
	Email            string `json:"email"`
	EmailVerified    string `json:"email_verified"`
	Name             string `json:"name"`
	Picture          string `json:"picture"`
	ErrorDescription string `json:"error_description"`
}

// Verifier validates Google ID tokens via the tokeninfo endpoint.
type Verifier struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithTokenInfoURL points the verifier at a different tokeninfo endpoint.
func WithTokenInfoURL(u string) Option {
	return func(v *Verifier) { v.tokenInfoURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.httpClient = c }
}

// NewVerifier creates a new Google ID token verifier.
func NewVerifier(clientID string, timeout time.Duration, opts ...Option) *Verifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	v := &Verifier{
		clientID:     clientID,
		tokenInfoURL: DefaultTokenInfoURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*port.IdentityClaims, error) {
	if idToken == "" {
		return nil, fmt.Errorf("%w: ID token must be a non-empty string", domain.ErrSocialAuthTokenInvalid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.tokenInfoURL+"?id_token="+url.QueryEscape(idToken), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tokeninfo endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var info tokenInfoResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&info)

	// tokeninfo answers 400 for malformed, expired, or forged tokens
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		reason := info.ErrorDescription
		if reason == "" {
			reason = "token rejected by Google"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSocialAuthTokenInvalid, reason)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo endpoint returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding tokeninfo response: %w", decodeErr)
	}

	// Validate audience matches our client ID
	if info.Aud != v.clientID {
		return nil, fmt.Errorf("%w: ID token has incorrect audience", domain.ErrSocialAuthTokenInvalid)
	}

	// Validate issuer
	if info.Iss != "accounts.google.com" && info.Iss != "https://accounts.google.com" {
		return nil, fmt.Errorf("%w: ID token has incorrect issuer", domain.ErrSocialAuthTokenInvalid)
	}

	return &port.IdentityClaims{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		DisplayName:   info.Name,
		PictureURL:    info.Picture,
	}, nil
}

func (v *Verifier) Provider() string {
	return string(domain.AuthProviderGoogle)
}

// Compile-time check.
var _ port.IdentityTokenVerifier = (*Verifier)(nil)
