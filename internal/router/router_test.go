package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"jwtauth/internal/config"
	"jwtauth/internal/domain"
	"jwtauth/internal/handler"
	"jwtauth/internal/observability"
	"jwtauth/internal/router"
	"jwtauth/internal/service"
	"jwtauth/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Environment: "development"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2},
		Tracing:   config.TracingConfig{ServiceName: "jwtauth-test"},
	}
}

func newEngine(cfg *config.Config, svc service.SocialAuthService) *gin.Engine {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return router.Setup(cfg, zap.NewNop(), metrics, handler.NewAuthHandler(svc, nil), handler.NewHealthHandler(nil))
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	req.RemoteAddr = "192.0.2.10:5555"
	r.ServeHTTP(w, req)
	return w
}

func session() *domain.SessionToken {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.SessionToken{
		AccessToken:        "a",
		AccessTokenExpiry:  now.Add(15 * time.Minute),
		RefreshToken:       "r",
		RefreshTokenExpiry: now.Add(time.Hour),
		IssuedAt:           now,
	}
}

func TestRouter_GoogleLogin(t *testing.T) {
	svc := mocks.NewMockSocialAuthService(t)
	svc.ExpectExchange("tok", uuid.New(), session(), false).Once()
	r := newEngine(testConfig(), svc)

	w := do(r, http.MethodPost, "/api/v1/auth/google", `{"token":"tok"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_GoogleLoginIsRateLimited(t *testing.T) {
	svc := new(mocks.MockSocialAuthService)
	svc.On("SocialLogin", mock.Anything, mock.Anything).
		Return(&service.SocialLoginOutput{UserID: uuid.New(), Session: session()}, nil)
	r := newEngine(testConfig(), svc)

	var last int
	for i := 0; i < 3; i++ {
		last = do(r, http.MethodPost, "/api/v1/auth/google", `{"token":"tok"}`).Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
	svc.AssertNumberOfCalls(t, "SocialLogin", 2)
}

func TestRouter_RateLimitKeysOnPeerWhenNoProxyTrusted(t *testing.T) {
	svc := new(mocks.MockSocialAuthService)
	svc.On("SocialLogin", mock.Anything, mock.Anything).
		Return(&service.SocialLoginOutput{UserID: uuid.New(), Session: session()}, nil)
	r := newEngine(testConfig(), svc)

	var last int
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/google", strings.NewReader(`{"token":"tok"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.RemoteAddr = "203.0.113.7:5555"
		r.ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
	svc.AssertNumberOfCalls(t, "SocialLogin", 2)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	r := newEngine(testConfig(), new(mocks.MockSocialAuthService))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/readyz", "").Code)

	metrics := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "http_requests_total")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/swagger/doc.json", "").Code)
}

func TestRouter_SwaggerHiddenInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Environment = "production"
	r := newEngine(cfg, new(mocks.MockSocialAuthService))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/swagger/doc.json", "").Code)
}

func TestRouter_UnknownMethodOnExchange(t *testing.T) {
	r := newEngine(testConfig(), new(mocks.MockSocialAuthService))

	w := do(r, http.MethodGet, "/api/v1/auth/google", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
