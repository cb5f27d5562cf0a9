package firebase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"jwtauth/internal/domain"
)

type stubClient struct {
	token *firebaseauth.Token
	err   error
	seen  string
}

func (s *stubClient) VerifyIDToken(_ context.Context, idToken string) (*firebaseauth.Token, error) {
	s.seen = idToken
	return s.token, s.err
}

func TestVerifyIDToken_ExtractsClaims(t *testing.T) {
	stub := &stubClient{token: &firebaseauth.Token{
		UID: "firebase-uid-1",
		Claims: map[string]interface{}{
			"email":          "jane@example.com",
			"email_verified": true,
			"name":           "Jane Doe",
			"picture":        "https://example.com/jane.png",
		},
	}}
	v := &Verifier{client: stub}

	claims, err := v.VerifyIDToken(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "id-token", stub.seen)
	assert.Equal(t, "firebase-uid-1", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, "Jane Doe", claims.DisplayName)
	assert.Equal(t, "https://example.com/jane.png", claims.PictureURL)
}

func TestClaimsFromToken_MissingOptionalClaims(t *testing.T) {
	claims := claimsFromToken(&firebaseauth.Token{
		Subject: "sub-only",
		Claims:  map[string]interface{}{"email": 42},
	})

	assert.Equal(t, "sub-only", claims.Subject)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.DisplayName)
	assert.False(t, claims.EmailVerified)
}

func TestVerifyIDToken_InfrastructureErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "context cancelled", err: context.Canceled},
		{name: "deadline exceeded", err: context.DeadlineExceeded},
		{name: "missing project id", err: errors.New("project id not available")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Verifier{client: &stubClient{err: tt.err}}

			claims, err := v.VerifyIDToken(context.Background(), "id-token")

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.err)
			assert.NotErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
		})
	}
}

func TestProvider(t *testing.T) {
	assert.Equal(t, "firebase", (&Verifier{}).Provider())
}

// unsignedToken builds an RS256-shaped token; rejections below happen before any
// signature check, so no signing keys are fetched.
func unsignedToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "RS256", "kid": "test-key", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + "." + enc.EncodeToString([]byte("signature"))
}

func TestVerifyIDToken_RejectsInvalidTokens(t *testing.T) {
	t.Setenv("FIREBASE_AUTH_EMULATOR_HOST", "")
	ctx := context.Background()
	v, err := NewVerifier(ctx, "demo-project", "", option.WithoutAuthentication())
	require.NoError(t, err)

	now := time.Now()
	claims := func(aud string, iat, exp time.Time) map[string]interface{} {
		return map[string]interface{}{
			"aud":   aud,
			"iss":   "https://securetoken.google.com/" + aud,
			"sub":   "firebase-uid-1",
			"iat":   iat.Unix(),
			"exp":   exp.Unix(),
			"email": "jane@example.com",
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong segment count", token: "garbage"},
		{name: "illegal base64", token: "a.b.c"},
		{name: "other project audience", token: unsignedToken(t, claims("other-project", now, now.Add(time.Hour)))},
		{name: "expired", token: unsignedToken(t, claims("demo-project", now.Add(-2*time.Hour), now.Add(-time.Hour)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.VerifyIDToken(ctx, tt.token)

			assert.Nil(t, got)
			assert.True(t, errors.Is(err, domain.ErrSocialAuthTokenInvalid), "got %v", err)
		})
	}
}
