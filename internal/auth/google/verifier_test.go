package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jwtauth/internal/auth/google"
	"jwtauth/internal/domain"
)

const clientID = "client-123.apps.googleusercontent.com"

func newTokenInfoServer(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func validInfo() map[string]string {
	return map[string]string{
		"iss":            "https://accounts.google.com",
		"aud":            clientID,
		"sub":            "google-sub-1",
		"email":          "jane@gmail.com",
		"email_verified": "true",
		"name":           "Jane Doe",
		"picture":        "https://lh3.googleusercontent.com/jane",
	}
}

func TestVerifyIDToken_Valid(t *testing.T) {
	srv := newTokenInfoServer(t, http.StatusOK, validInfo())
	v := google.NewVerifier(clientID, time.Second, google.WithTokenInfoURL(srv.URL))

	claims, err := v.VerifyIDToken(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", claims.Subject)
	assert.Equal(t, "jane@gmail.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, "Jane Doe", claims.DisplayName)
	assert.Equal(t, "https://lh3.googleusercontent.com/jane", claims.PictureURL)
}

func TestVerifyIDToken_Rejected(t *testing.T) {
	wrongAud := validInfo()
	wrongAud["aud"] = "other-client"
	wrongIss := validInfo()
	wrongIss["iss"] = "https://evil.example.com"

	tests := []struct {
		name    string
		status  int
		body    map[string]string
		wantMsg string
	}{
		{
			name:    "expired token",
			status:  http.StatusBadRequest,
			body:    map[string]string{"error": "invalid_token", "error_description": "Invalid Value"},
			wantMsg: "Invalid Value",
		},
		{name: "wrong audience", status: http.StatusOK, body: wrongAud, wantMsg: "incorrect audience"},
		{name: "wrong issuer", status: http.StatusOK, body: wrongIss, wantMsg: "incorrect issuer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTokenInfoServer(t, tt.status, tt.body)
			v := google.NewVerifier(clientID, time.Second, google.WithTokenInfoURL(srv.URL))

			claims, err := v.VerifyIDToken(context.Background(), "id-token")

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestVerifyIDToken_EmptyToken(t *testing.T) {
	v := google.NewVerifier(clientID, time.Second, google.WithTokenInfoURL("http://127.0.0.1:0"))

	_, err := v.VerifyIDToken(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifyIDToken_UpstreamFailureIsNotATokenRejection(t *testing.T) {
	srv := newTokenInfoServer(t, http.StatusServiceUnavailable, map[string]string{})
	v := google.NewVerifier(clientID, time.Second, google.WithTokenInfoURL(srv.URL))

	_, err := v.VerifyIDToken(context.Background(), "id-token")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
	assert.Contains(t, err.Error(), "status 503")
}

func TestVerifyIDToken_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := google.NewVerifier(clientID, time.Second, google.WithTokenInfoURL(url))

	_, err := v.VerifyIDToken(context.Background(), "id-token")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}
