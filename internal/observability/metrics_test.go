package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"jwtauth/internal/domain"
	"jwtauth/internal/observability"
)

func TestRecordExchange(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	m.RecordExchange(domain.OutcomeCreatedUser)
	m.RecordExchange(domain.OutcomeCreatedUser)
	m.RecordExchange(domain.OutcomeInvalidToken)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ExchangesTotal.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExchangesTotal.WithLabelValues("invalid_token")))
}

func TestRecordExchange_NilMetrics(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() { m.RecordExchange(domain.OutcomeError) })
}

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics(nil)

	r := gin.New()
	r.Use(observability.PrometheusMiddleware(m))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("200", "GET", "/healthz")))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
