package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jwtauth/internal/auth"
	"jwtauth/internal/config"
	"jwtauth/internal/email/noop"
	"jwtauth/internal/email/ses"
	"jwtauth/internal/handler"
	"jwtauth/internal/logger"
	"jwtauth/internal/observability"
	"jwtauth/internal/port"
	"jwtauth/internal/repository/postgres"
	redisstore "jwtauth/internal/repository/redis"
	"jwtauth/internal/router"
	"jwtauth/internal/service"
)

// @title        JWT Auth API
// @version      1.0
// @description  Exchanges Google/Firebase identity tokens for application access and refresh tokens.
// @BasePath     /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing, cfg.Server.Environment, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	checks := []handler.DependencyCheck{{Name: "database", Check: db.PingContext}}

	// Refresh token persistence is optional
	var refreshStore port.RefreshTokenStore
	if cfg.Redis.Enabled {
		rdb, err := redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		refreshStore = redisstore.NewRefreshTokenStore(rdb, cfg.Redis.Prefix)
		checks = append(checks, handler.DependencyCheck{Name: "redis", Check: pingRedis(rdb)})
		log.Info("refresh token store enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Social.Verifier == "firebase" && !cfg.Social.FirebaseProjectResolvable() {
		log.Warn("no firebase project id configured; every token exchange will fail until JWTAUTH_SOCIAL_FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is set")
	}

	// The SDK clients keep ctx for later key fetches, so it must outlive startup.
	verifier, err := auth.NewVerifier(ctx, &cfg.Social)
	if err != nil {
		return fmt.Errorf("failed to initialize %s verifier: %w", cfg.Social.Verifier, err)
	}
	log.Info("identity token verifier ready", zap.String("provider", verifier.Provider()))

	mailer, err := newEmailSender(ctx, cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// Initialize repositories and services
	userRepo := postgres.NewUserRepo(db)
	issuer := service.NewTokenIssuer(cfg.JWT, refreshStore)
	socialAuthSvc := service.NewSocialAuthService(verifier, userRepo, issuer, mailer, metrics, log)

	// Initialize handlers
	authH := handler.NewAuthHandler(socialAuthSvc, log.Named("auth"))
	healthH := handler.NewHealthHandler(log.Named("health"), checks...)

	r := router.Setup(cfg, log, metrics, authH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newEmailSender(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		sender, err := ses.NewSESSender(ctx, &cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		log.Info("email provider: SES", zap.String("region", cfg.Email.Region))
		return sender, nil
	default:
		log.Info("email provider: noop (welcome emails are logged)")
		return noop.NewNoopSender(log.Named("email")), nil
	}
}

func pingRedis(rdb *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
