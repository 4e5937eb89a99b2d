// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Every fallback (404, 405, panic, 429) answers with the API envelope
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-clientes-api/docs"
	"github.com/tbourn/go-clientes-api/internal/apperr"
	"github.com/tbourn/go-clientes-api/internal/config"
	"github.com/tbourn/go-clientes-api/internal/http/handlers"
	"github.com/tbourn/go-clientes-api/internal/http/middleware"
	"github.com/tbourn/go-clientes-api/internal/repo"
	"github.com/tbourn/go-clientes-api/internal/services"
	"github.com/tbourn/go-clientes-api/internal/validation"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderIdempotencyKey}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotentReplayed}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. stats may be nil; when set, every rate-limit decision is recorded
// there.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting unless LOG_REDACT=false)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, stats middleware.StatsSink, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access log
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to the INTERNAL envelope
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	idem := repo.NewIdempotencyStore(db, cfg.IdempotencyTTL)
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Exists))

	// 8) Token-bucket rate limiter per IP
	var rlOpts []middleware.RateLimiterOption
	if stats != nil {
		rlOpts = append(rlOpts, middleware.WithStats(stats))
	}
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP(), rlOpts...)
	r.Use(rl.Handler())

	// 9) CORS posture (allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		CacheControl: cfg.Security.CacheControl,
		EnablePolicy: true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, apperr.NotFound(handlers.MsgRouteNotFound))
	})
	r.NoMethod(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusMethodNotAllowed, middleware.TypeMethodNotAllowed, handlers.MsgMethodNotAllowed)
	})

	// Liveness/health
	r.GET("/health", health(db))

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: handlers ← services ← repo/db
	svc := services.NewClienteService(repo.NewClienteStore(db), validation.MustNew())
	h := handlers.New(svc, idem)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	{
		api.POST("/clientes", h.CreateClientes)
		api.GET("/clientes", h.ListClientes)
		api.GET("/clientes/:id", h.GetCliente)
		api.PUT("/clientes/:id", h.UpdateCliente)
		api.PATCH("/clientes/:id", h.UpdateCliente)
		api.DELETE("/clientes/:id", h.DeleteCliente)
	}
}

// health reports liveness plus a database ping.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
