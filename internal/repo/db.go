// Package repo implements the data persistence layer for clientes, backed by
// GORM. This file contains database bootstrapping helpers for SQLite (pure Go
// driver) and PostgreSQL, connection retry, and schema migrations.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-clientes-api/internal/domain"
)

// Supported storage engines.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by Open for an unknown Options.Driver.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// Options selects and tunes the storage engine.
type Options struct {
	Driver       string // DriverSQLite or DriverPostgres
	Path         string // SQLite file path or DSN
	DSN          string // PostgreSQL connection string
	MaxOpenConns int
	// ConnectRetries is how many extra attempts are made when the first
	// connection or ping fails. Zero means a single attempt.
	ConnectRetries int
	Tracing        bool
}

func gormConfig() *gorm.Config {
	// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
	return &gorm.Config{TranslateError: true}
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// OpenPostgres opens a PostgreSQL database through pgx and sizes the pool.
func OpenPostgres(dsn string, maxOpen int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Open connects to the configured engine, retrying with exponential backoff
// until a ping succeeds or the attempts run out, then installs the
// OpenTelemetry plugin when requested.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	var db *gorm.DB

	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(max(opts.ConnectRetries, 0)), b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		conn, err := dial(opts)
		if errors.Is(err, ErrUnsupportedDriver) {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("driver", opts.Driver).Msg("db connect failed")
			return retry.RetryableError(err)
		}
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			if sqlDB != nil {
				_ = sqlDB.Close()
			}
			log.Warn().Err(err).Int("attempt", attempt).Str("driver", opts.Driver).Msg("db ping failed")
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("gorm tracing plugin: %w", err)
		}
	}
	return db, nil
}

func dial(opts Options) (*gorm.DB, error) {
	switch opts.Driver {
	case DriverPostgres:
		return OpenPostgres(opts.DSN, opts.MaxOpenConns)
	case DriverSQLite, "":
		return OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, opts.Driver)
	}
}

// AutoMigrate creates or updates the clientes and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Cliente{},
		&domain.Idempotency{},
	)
}
