package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "jwtauth/docs"
	"jwtauth/internal/config"
	"jwtauth/internal/handler"
	"jwtauth/internal/middleware"
	"jwtauth/internal/observability"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	metrics *observability.Metrics,
	authH *handler.AuthHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	// X-Forwarded-For is honored only from these peers.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(observability.PrometheusMiddleware(metrics))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Operational endpoints
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if !cfg.Server.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	auth.POST("/google", authH.GoogleLogin)

	return r
}
