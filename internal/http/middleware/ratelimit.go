// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with per-client
// buckets and opportunistic garbage collection, for a single-process
// deployment.
//
// Features:
//   - Per-key token buckets using golang.org/x/time/rate
//   - Pluggable identity function (client IP by default)
//   - Best-effort cleanup of idle buckets to bound memory
//   - Bypass for idempotent replays (set by IdempotencyValidator)
//   - Optional StatsSink fed with every allow/deny decision
//
// The limiter is process-local; the stats sink may be shared (e.g. Redis) so
// several replicas report into one place, but limits are not global.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MsgRateLimited is returned with 429 responses.
const MsgRateLimited = "Demasiadas solicitudes. Intente nuevamente en unos segundos."

// KeyFunc selects the identity used to key a rate-limit bucket.
type KeyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by the client IP as resolved by Gin (which
// honors the engine's trusted proxy settings).
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// StatsEvent describes one limiter decision.
type StatsEvent struct {
	Key     string
	Method  string
	Path    string
	Allowed bool
	At      time.Time
}

// StatsSink receives limiter decisions. Record errors are ignored by the
// limiter.
type StatsSink interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// statsTimeout bounds how long a request waits on the sink.
const statsTimeout = 50 * time.Millisecond

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements a per-key token-bucket rate limiter. Idle buckets
// are evicted after ttl during lookups. Safe for concurrent use.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    KeyFunc
	stats    StatsSink
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// RateLimiterOption customizes a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithStats attaches a sink that records every decision.
func WithStats(s StatsSink) RateLimiterOption {
	return func(rl *RateLimiter) { rl.stats = s }
}

// NewRateLimiter constructs a RateLimiter with rps tokens per second and the
// given burst (values <= 0 become 1), keyed by keyFn.
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc, opts ...RateLimiterOption) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByClientIP()
	}
	rl := &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
	for _, o := range opts {
		o(rl)
	}
	return rl
}

// getVisitor returns the limiter for key, creating it if absent. Every 5000
// lookups it first evicts idle buckets, so a stale bucket is dropped even
// when it is the one being fetched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay that should not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (rl *RateLimiter) record(c *gin.Context, key string, allowed bool) {
	if rl.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), statsTimeout)
	defer cancel()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	if err := rl.stats.Record(ctx, StatsEvent{
		Key:     key,
		Method:  c.Request.Method,
		Path:    path,
		Allowed: allowed,
		At:      time.Now().UTC(),
	}); err != nil {
		LoggerFrom(c).Debug().Err(err).Msg("rate limit stats")
	}
}

// Handler returns a Gin middleware that enforces per-key limits. Denied
// requests get 429 with Retry-After: 1 and the RATE_LIMITED envelope.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		key := rl.keyFn(c)
		allowed := rl.getVisitor(key).Allow()
		rl.record(c, key, allowed)

		if allowed {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		AbortWithError(c, http.StatusTooManyRequests, TypeRateLimited, MsgRateLimited)
	}
}
