package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	Social    SocialConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Tracing   TracingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honored. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// IsProduction reports whether the server runs in the production environment.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SocialConfig selects and configures the identity token verifier.
type SocialConfig struct {
	Verifier                string        `mapstructure:"verifier"`
	FirebaseProjectID       string        `mapstructure:"firebase_project_id"`
	FirebaseCredentialsFile string        `mapstructure:"firebase_credentials_file"`
	GoogleClientID          string        `mapstructure:"google_client_id"`
	OIDCIssuerURL           string        `mapstructure:"oidc_issuer_url"`
	OIDCClientID            string        `mapstructure:"oidc_client_id"`
	VerifyTimeout           time.Duration `mapstructure:"verify_timeout"`
}

// FirebaseProjectResolvable reports whether the Firebase Admin SDK can find a project ID,
// either from config, the credentials file or the environment variables it reads.
func (s *SocialConfig) FirebaseProjectResolvable() bool {
	if s.FirebaseProjectID != "" || s.FirebaseCredentialsFile != "" {
		return true
	}
	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT", "FIREBASE_CONFIG", "GOOGLE_APPLICATION_CREDENTIALS"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// RedisConfig holds settings for the refresh token store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RateLimitConfig holds per-IP limits for the token exchange endpoint.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// TracingConfig holds OpenTelemetry exporter settings. An empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

var supportedVerifiers = map[string]bool{
	"firebase": true,
	"google":   true,
	"oidc":     true,
}

// Validate checks settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	if !supportedVerifiers[c.Social.Verifier] {
		return fmt.Errorf("unsupported social verifier %q", c.Social.Verifier)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret must be set")
	}
	if c.Server.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("jwt secret must be changed in production")
	}
	for _, p := range c.Server.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid trusted proxy %q", p)
			}
		}
	}
	if c.JWT.AccessTokenExpiry <= 0 || c.JWT.RefreshTokenExpiry <= 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	switch c.Social.Verifier {
	case "google":
		if c.Social.GoogleClientID == "" {
			return errors.New("social.google_client_id is required for the google verifier")
		}
	case "oidc":
		if c.Social.OIDCIssuerURL == "" || c.Social.OIDCClientID == "" {
			return errors.New("social.oidc_issuer_url and social.oidc_client_id are required for the oidc verifier")
		}
	}
	return nil
}

const defaultJWTSecret = "change-me-in-production"

// Load reads configuration from environment variables with the JWTAUTH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JWTAUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.trusted_proxies", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "jwtauth")
	v.SetDefault("db.password", "jwtauth_secret")
	v.SetDefault("db.name", "jwtauth_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "jwtauth")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Social verifier defaults
	v.SetDefault("social.verifier", "firebase")
	v.SetDefault("social.firebase_project_id", "")
	v.SetDefault("social.firebase_credentials_file", "")
	v.SetDefault("social.google_client_id", "")
	v.SetDefault("social.oidc_issuer_url", "https://accounts.google.com")
	v.SetDefault("social.oidc_client_id", "")
	v.SetDefault("social.verify_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "jwtauth:refresh:")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.access_key", "")
	v.SetDefault("email.secret_key", "")
	v.SetDefault("email.from_address", "noreply@example.com")
	v.SetDefault("email.from_name", "JWT Auth")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Tracing defaults
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "jwtauth")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "JWTAUTH_SERVER_PORT",
		"server.read_timeout":              "JWTAUTH_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "JWTAUTH_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":          "JWTAUTH_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":               "JWTAUTH_SERVER_ENVIRONMENT",
		"server.trusted_proxies":           "JWTAUTH_SERVER_TRUSTED_PROXIES",
		"db.host":                          "JWTAUTH_DB_HOST",
		"db.port":                          "JWTAUTH_DB_PORT",
		"db.user":                          "JWTAUTH_DB_USER",
		"db.password":                      "JWTAUTH_DB_PASSWORD",
		"db.name":                          "JWTAUTH_DB_NAME",
		"db.sslmode":                       "JWTAUTH_DB_SSLMODE",
		"db.max_open":                      "JWTAUTH_DB_MAX_OPEN",
		"db.max_idle":                      "JWTAUTH_DB_MAX_IDLE",
		"jwt.secret":                       "JWTAUTH_JWT_SECRET",
		"jwt.access_expiry":                "JWTAUTH_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":               "JWTAUTH_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                       "JWTAUTH_JWT_ISSUER",
		"log.level":                        "JWTAUTH_LOG_LEVEL",
		"log.format":                       "JWTAUTH_LOG_FORMAT",
		"cors.allowed_origins":             "JWTAUTH_CORS_ALLOWED_ORIGINS",
		"social.verifier":                  "JWTAUTH_SOCIAL_VERIFIER",
		"social.firebase_project_id":       "JWTAUTH_SOCIAL_FIREBASE_PROJECT_ID",
		"social.firebase_credentials_file": "JWTAUTH_SOCIAL_FIREBASE_CREDENTIALS_FILE",
		"social.google_client_id":          "JWTAUTH_SOCIAL_GOOGLE_CLIENT_ID",
		"social.oidc_issuer_url":           "JWTAUTH_SOCIAL_OIDC_ISSUER_URL",
		"social.oidc_client_id":            "JWTAUTH_SOCIAL_OIDC_CLIENT_ID",
		"social.verify_timeout":            "JWTAUTH_SOCIAL_VERIFY_TIMEOUT",
		"redis.enabled":                    "JWTAUTH_REDIS_ENABLED",
		"redis.addr":                       "JWTAUTH_REDIS_ADDR",
		"redis.password":                   "JWTAUTH_REDIS_PASSWORD",
		"redis.db":                         "JWTAUTH_REDIS_DB",
		"redis.prefix":                     "JWTAUTH_REDIS_PREFIX",
		"rate_limit.requests_per_second":   "JWTAUTH_RATE_LIMIT_REQUESTS_PER_SECOND",
		"rate_limit.burst":                 "JWTAUTH_RATE_LIMIT_BURST",
		"email.provider":                   "JWTAUTH_EMAIL_PROVIDER",
		"email.region":                     "JWTAUTH_EMAIL_REGION",
		"email.access_key":                 "JWTAUTH_EMAIL_ACCESS_KEY",
		"email.secret_key":                 "JWTAUTH_EMAIL_SECRET_KEY",
		"email.from_address":               "JWTAUTH_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "JWTAUTH_EMAIL_FROM_NAME",
		"email.frontend_url":               "JWTAUTH_EMAIL_FRONTEND_URL",
		"tracing.endpoint":                 "JWTAUTH_TRACING_ENDPOINT",
		"tracing.service_name":             "JWTAUTH_TRACING_SERVICE_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if JWTAUTH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("JWTAUTH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
		TrustedProxies:  splitCSV(v.GetString("server.trusted_proxies")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Social = SocialConfig{
		Verifier:                strings.ToLower(v.GetString("social.verifier")),
		FirebaseProjectID:       v.GetString("social.firebase_project_id"),
		FirebaseCredentialsFile: v.GetString("social.firebase_credentials_file"),
		GoogleClientID:          v.GetString("social.google_client_id"),
		OIDCIssuerURL:           v.GetString("social.oidc_issuer_url"),
		OIDCClientID:            v.GetString("social.oidc_client_id"),
		VerifyTimeout:           v.GetDuration("social.verify_timeout"),
	}
	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		Prefix:   v.GetString("redis.prefix"),
	}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
		Burst:             v.GetInt("rate_limit.burst"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		AccessKey:   v.GetString("email.access_key"),
		SecretKey:   v.GetString("email.secret_key"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Tracing = TracingConfig{
		Endpoint:    v.GetString("tracing.endpoint"),
		ServiceName: v.GetString("tracing.service_name"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// splitCSV parses a comma-separated list, dropping blanks.
func splitCSV(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
