package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Clear all env that might affect defaults. t.Setenv isolates per test.
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("SHUTDOWN_TIMEOUT", "7s")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// Storage / requests
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_CONNECT_RETRIES", "0")
	t.Setenv("MAX_BODY_BYTES", "2048")
	t.Setenv("LOG_REDACT", "off")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10
	t.Setenv("RATE_STATS_REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_STATS_TTL", "2h")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")
	t.Setenv("CACHE_CONTROL", "no-store")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")
	t.Setenv("IDEMPOTENCY_PURGE_INTERVAL", "10m")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.ShutdownTimeout != 7*time.Second ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.LogRedact || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// Storage / requests
	if cfg.Env != EnvDevelopment || cfg.IsProduction() {
		t.Fatalf("env unexpected: %q", cfg.Env)
	}
	wantDB := DBConfig{Driver: "sqlite", Path: "db.sqlite", MaxOpenConns: 4, ConnectRetries: 0}
	if cfg.DB != wantDB || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("storage fields unexpected: %+v body=%d", cfg.DB, cfg.MaxBodyBytes)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}
	if cfg.RateStats != (RateStatsConfig{RedisAddr: "redis:6379", Prefix: "ratelimit:stats", TTL: 2 * time.Hour}) {
		t.Fatalf("rate stats unexpected: %+v", cfg.RateStats)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour || cfg.Security.CacheControl != "no-store" {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour || cfg.IdempotencyPurgeEvery != 10*time.Minute {
		t.Fatalf("idempotency unexpected: %v %v", cfg.IdempotencyTTL, cfg.IdempotencyPurgeEvery)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	t.Run("invalid LOG_LEVEL", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := Load(); err == nil {
			t.Fatalf("expected LOG_LEVEL validation error")
		}
	})
	t.Run("empty PORT via spaces", func(t *testing.T) {
		t.Setenv("PORT", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "PORT must not be empty") {
			t.Fatalf("expected port validation error, got: %v", err)
		}
	})
	t.Run("non-positive timeouts", func(t *testing.T) {
		t.Setenv("READ_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "timeouts must be positive") {
			t.Fatalf("expected timeouts validation error, got: %v", err)
		}
	})
	t.Run("shutdown timeout <= 0", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "SHUTDOWN_TIMEOUT") {
			t.Fatalf("expected SHUTDOWN_TIMEOUT validation error, got: %v", err)
		}
	})
	t.Run("max header bytes <= 0", func(t *testing.T) {
		t.Setenv("MAX_HEADER_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "MAX_HEADER_BYTES") {
			t.Fatalf("expected MAX_HEADER_BYTES validation error, got: %v", err)
		}
	})
	t.Run("unknown APP_ENV", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		if _, err := Load(); err == nil || !containsErr(err, "APP_ENV") {
			t.Fatalf("expected APP_ENV validation error, got: %v", err)
		}
	})
	t.Run("empty DB_PATH", func(t *testing.T) {
		t.Setenv("DB_PATH", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "DB_PATH must not be empty") {
			t.Fatalf("expected DB_PATH validation error, got: %v", err)
		}
	})
	t.Run("unknown DB_DRIVER", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := Load(); err == nil || !containsErr(err, "DB_DRIVER") {
			t.Fatalf("expected DB_DRIVER validation error, got: %v", err)
		}
	})
	t.Run("postgres without DATABASE_URL", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		if _, err := Load(); err == nil || !containsErr(err, "DATABASE_URL") {
			t.Fatalf("expected DATABASE_URL validation error, got: %v", err)
		}
	})
	t.Run("in-memory sqlite in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("DB_PATH", "file::memory:?cache=shared")
		if _, err := Load(); err == nil || !containsErr(err, "production") {
			t.Fatalf("expected production DB validation error, got: %v", err)
		}
	})
	t.Run("max open conns < 1", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "0")
		if _, err := Load(); err == nil || !containsErr(err, "DB_MAX_OPEN_CONNS") {
			t.Fatalf("expected DB_MAX_OPEN_CONNS validation error, got: %v", err)
		}
	})
	t.Run("connect retries negative", func(t *testing.T) {
		t.Setenv("DB_CONNECT_RETRIES", "-1")
		if _, err := Load(); err == nil || !containsErr(err, "DB_CONNECT_RETRIES") {
			t.Fatalf("expected DB_CONNECT_RETRIES validation error, got: %v", err)
		}
	})
	t.Run("max body bytes <= 0", func(t *testing.T) {
		t.Setenv("MAX_BODY_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "MAX_BODY_BYTES") {
			t.Fatalf("expected MAX_BODY_BYTES validation error, got: %v", err)
		}
	})
	t.Run("rate rps negative", func(t *testing.T) {
		t.Setenv("RATE_RPS", "-1")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_RPS") {
			t.Fatalf("expected RATE_RPS validation error, got: %v", err)
		}
	})
	t.Run("rate burst < 1", func(t *testing.T) {
		t.Setenv("RATE_BURST", "0")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_BURST") {
			t.Fatalf("expected RATE_BURST validation error, got: %v", err)
		}
	})
	t.Run("hsts max age negative", func(t *testing.T) {
		t.Setenv("HSTS_MAX_AGE", "-1s")
		if _, err := Load(); err == nil || !containsErr(err, "HSTS_MAX_AGE") {
			t.Fatalf("expected HSTS_MAX_AGE validation error, got: %v", err)
		}
	})
	t.Run("rate stats ttl non-positive", func(t *testing.T) {
		t.Setenv("RATE_STATS_TTL", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_STATS_TTL") {
			t.Fatalf("expected RATE_STATS_TTL validation error, got: %v", err)
		}
	})
	t.Run("purge interval non-positive", func(t *testing.T) {
		t.Setenv("IDEMPOTENCY_PURGE_INTERVAL", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "IDEMPOTENCY_PURGE_INTERVAL") {
			t.Fatalf("expected IDEMPOTENCY_PURGE_INTERVAL validation error, got: %v", err)
		}
	})
	t.Run("idempotency ttl non-positive", func(t *testing.T) {
		t.Setenv("IDEMPOTENCY_TTL", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "IDEMPOTENCY_TTL") {
			t.Fatalf("expected IDEMPOTENCY_TTL validation error, got: %v", err)
		}
	})
	t.Run("otel sample ratio out of range", func(t *testing.T) {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		if _, err := Load(); err == nil || !containsErr(err, "OTEL_TRACES_SAMPLER_ARG") {
			t.Fatalf("expected OTEL_TRACES_SAMPLER_ARG validation error, got: %v", err)
		}
	})

	// Note: API_BASE_PATH validation is effectively unreachable due to normalizeBasePath
	// always ensuring a leading '/' and returning "/" for empty input.
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + config_strconv(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + config_strconv(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	// default on unset/empty
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	// normalizeBasePath
	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

// small helper (avoid fmt just for ints)
func config_strconv(i int) string { return string('a' + rune(i)) }

// Ensure host env does not leak into defaults.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "APP_ENV", "DB_DRIVER", "DB_PATH", "DATABASE_URL"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestLoad_Defaults_PerEnvironment(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.Env != EnvDevelopment {
		t.Fatalf("defaults unexpected: base=%q env=%q", cfg.APIBasePath, cfg.Env)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "clientes.db" || !cfg.SwaggerEnabled || !cfg.LogRedact {
		t.Fatalf("development defaults unexpected: %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1<<20 || cfg.Security.CacheControl != "no-cache" || cfg.Security.EnableHSTS {
		t.Fatalf("request defaults unexpected: %+v", cfg)
	}

	t.Setenv("APP_ENV", "testing")
	cfg, err = Load()
	if err != nil || cfg.DB.Path != "file::memory:?cache=shared" {
		t.Fatalf("testing defaults: %v %+v", err, cfg.DB)
	}

	t.Setenv("APP_ENV", "Production")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/clientes")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("production Load() error: %v", err)
	}
	if !cfg.IsProduction() || cfg.DB.Driver != "postgres" || cfg.SwaggerEnabled || !cfg.Security.EnableHSTS {
		t.Fatalf("production defaults unexpected: %+v", cfg)
	}
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	// No special env needed; defaults are valid.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}
