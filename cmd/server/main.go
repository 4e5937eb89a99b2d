// Command server runs the Clientes HTTP API.
//
//	@title						Clientes API
//	@version					1.0
//	@description				CRUD API for clientes with uniform success and error envelopes.
//	@BasePath					/api/v1
//	@schemes					http https
//	@accept						json
//	@produce					json
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-clientes-api/internal/config"
	httpapi "github.com/tbourn/go-clientes-api/internal/http"
	"github.com/tbourn/go-clientes-api/internal/http/middleware"
	"github.com/tbourn/go-clientes-api/internal/observability"
	"github.com/tbourn/go-clientes-api/internal/repo"
	"github.com/tbourn/go-clientes-api/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ver := sysutil.BuildVersion(version, os.Getenv("APP_VERSION"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	db, err := repo.Open(ctx, repo.Options{
		Driver:         cfg.DB.Driver,
		Path:           cfg.DB.Path,
		DSN:            cfg.DB.URL,
		MaxOpenConns:   cfg.DB.MaxOpenConns,
		ConnectRetries: cfg.DB.ConnectRetries,
		Tracing:        cfg.OTEL.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	var stats middleware.StatsSink
	var rdb *redis.Client
	if cfg.RateStats.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RateStats.RedisAddr})
		stats = middleware.NewRedisStats(rdb,
			middleware.WithStatsPrefix(cfg.RateStats.Prefix),
			middleware.WithStatsTTL(cfg.RateStats.TTL),
		)
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, stats, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		runPurger(ctx, repo.NewIdempotencyStore(db, cfg.IdempotencyTTL), cfg.IdempotencyPurgeEvery)
	}()

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Env).
			Str("db", cfg.DB.Driver).
			Str("version", ver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	<-purgeDone
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("bye")
}

// purger deletes expired idempotency records.
type purger interface {
	Purge(ctx context.Context) (int64, error)
}

// runPurger sweeps expired idempotency records every interval until ctx is
// done.
func runPurger(ctx context.Context, p purger, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.Purge(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("idempotency purge")
				}
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency purge")
			}
		}
	}
}
