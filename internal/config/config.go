// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the database engine, rate limiting, and
// observability. APP_ENV (development, testing, production) selects defaults
// the way per-environment settings classes would.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	CacheControl string // sent on every response when non-empty
}

// DBConfig selects the storage engine.
type DBConfig struct {
	Driver         string // DB_DRIVER: sqlite|postgres
	Path           string // DB_PATH (sqlite file or DSN)
	URL            string // DATABASE_URL (postgres)
	MaxOpenConns   int    // DB_MAX_OPEN_CONNS
	ConnectRetries int    // DB_CONNECT_RETRIES
}

// RateStatsConfig points the rate limiter at an optional Redis counter sink.
type RateStatsConfig struct {
	RedisAddr string        // RATE_STATS_REDIS_ADDR; empty disables
	Prefix    string        // RATE_STATS_PREFIX
	TTL       time.Duration // RATE_STATS_TTL for per-minute buckets
}

// Environments accepted by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-clientes-api")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
	Environment string  // copied from APP_ENV
}

// Config holds all configuration values for the application.
type Config struct {
	Env string // APP_ENV

	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	ShutdownTimeout   time.Duration // graceful drain window
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogRedact      bool   // scrub PII from access logs
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DB DBConfig

	// Requests
	MaxBodyBytes int64 // MAX_BODY_BYTES

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)
	RateStats RateStatsConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL        time.Duration // how long a given Idempotency-Key is valid
	IdempotencyPurgeEvery time.Duration // sweep interval for expired keys

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	env := strings.ToLower(getenv("APP_ENV", EnvDevelopment))
	prod := env == EnvProduction
	dbURL := getenv("DATABASE_URL", "")

	defaultDriver := "sqlite"
	if dbURL != "" {
		defaultDriver = "postgres"
	}
	defaultDBPath := "clientes.db"
	if env == EnvTesting {
		defaultDBPath = "file::memory:?cache=shared"
	}

	cfg := Config{
		Env: env,

		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 15*time.Second),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		LogRedact:      getbool("LOG_REDACT", true),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", !prod),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Storage
		DB: DBConfig{
			Driver:         strings.ToLower(getenv("DB_DRIVER", defaultDriver)),
			Path:           getenv("DB_PATH", defaultDBPath),
			URL:            dbURL,
			MaxOpenConns:   getint("DB_MAX_OPEN_CONNS", 10),
			ConnectRetries: getint("DB_CONNECT_RETRIES", 5),
		},

		// Requests
		MaxBodyBytes: int64(getint("MAX_BODY_BYTES", 1<<20)),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),
		RateStats: RateStatsConfig{
			RedisAddr: getenv("RATE_STATS_REDIS_ADDR", ""),
			Prefix:    getenv("RATE_STATS_PREFIX", "ratelimit:stats"),
			TTL:       getdur("RATE_STATS_TTL", 24*time.Hour),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS:   getbool("ENABLE_HSTS", prod),
			HSTSMaxAge:   getdur("HSTS_MAX_AGE", 180*24*time.Hour),
			CacheControl: getenv("CACHE_CONTROL", "no-cache"),
		},

		// Idempotency
		IdempotencyTTL:        getdur("IDEMPOTENCY_TTL", 24*time.Hour),
		IdempotencyPurgeEvery: getdur("IDEMPOTENCY_PURGE_INTERVAL", time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-clientes-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
			Environment: env,
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.Env {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return cfg, errors.New("APP_ENV must be one of: development, testing, production")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.URL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if prod && cfg.DB.Driver == "sqlite" && strings.Contains(cfg.DB.Path, ":memory:") {
		return cfg, errors.New("in-memory DB_PATH is not allowed in production")
	}
	if cfg.DB.MaxOpenConns < 1 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DB.ConnectRetries < 0 {
		return cfg, errors.New("DB_CONNECT_RETRIES must be >= 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.RateStats.TTL <= 0 {
		return cfg, errors.New("RATE_STATS_TTL must be > 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.IdempotencyPurgeEvery <= 0 {
		return cfg, errors.New("IDEMPOTENCY_PURGE_INTERVAL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
