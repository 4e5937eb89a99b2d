// Package repo implements the data persistence layer for clientes, backed by
// GORM. This file provides repository helpers for the Idempotency model used
// to implement safe-retry semantics for POST endpoints.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-clientes-api/internal/domain"
)

// GetIdempotency returns a non-expired record for (scope, key) or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("scope = ? AND key = ? AND expires_at > ?", scope, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores the response recorded for (scope, key). An
// expired record for the pair is replaced; a live one yields ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key string, status int, body []byte, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	if err := db.WithContext(ctx).
		Where("scope = ? AND key = ? AND expires_at <= ?", scope, key, now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return nil, err
	}
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		Scope:     scope,
		Key:       key,
		Status:    status,
		Body:      body,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose expiry is at or before now
// and returns how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// IdempotencyStore binds the idempotency helpers to a database handle and a
// record lifetime so the HTTP layer can replay and record responses.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
	// Now returns the lookup clock; defaults to time.Now.
	Now func() time.Time
}

// NewIdempotencyStore returns a store keeping records for ttl (24h when <= 0).
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{DB: db, TTL: ttl, Now: time.Now}
}

func (s *IdempotencyStore) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Lookup returns the live record for (scope, key). A miss is (nil, nil).
func (s *IdempotencyStore) Lookup(ctx context.Context, scope, key string) (*domain.Idempotency, error) {
	rec, err := GetIdempotency(ctx, s.DB, scope, key, s.now())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// Exists reports whether a live record exists at now. Its signature matches
// the middleware lookup hook.
func (s *IdempotencyStore) Exists(ctx context.Context, scope, key string, now time.Time) (bool, error) {
	_, err := GetIdempotency(ctx, s.DB, scope, key, now.UTC())
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Save records the response for (scope, key). A concurrent request that
// stored first wins; its record is kept and ErrDuplicate is returned.
func (s *IdempotencyStore) Save(ctx context.Context, scope, key string, status int, body []byte) error {
	_, err := CreateIdempotency(ctx, s.DB, scope, key, status, body, s.TTL)
	return err
}

// Purge removes expired records.
func (s *IdempotencyStore) Purge(ctx context.Context) (int64, error) {
	return PurgeExpiredIdempotency(ctx, s.DB, s.now())
}
