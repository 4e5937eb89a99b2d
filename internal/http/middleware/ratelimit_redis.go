package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStats is a StatsSink that aggregates limiter decisions in Redis
// hashes:
//
//	<prefix>:total                 allowed|denied
//	<prefix>:minute:<YYYYMMDDhhmm> allowed|denied (expires after ttl)
//	<prefix>:route                 "<METHOD> <path>:allowed|denied"
type RedisStats struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// RedisStatsOption customizes RedisStats.
type RedisStatsOption func(*RedisStats)

// WithStatsPrefix sets the key prefix (default "ratelimit:stats").
func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStats) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStatsTTL sets the lifetime of per-minute buckets (default 24h).
func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStats) { s.ttl = d }
}

// NewRedisStats returns a sink writing through rdb.
func NewRedisStats(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStats {
	s := &RedisStats{
		rdb:    rdb,
		prefix: "ratelimit:stats",
		ttl:    24 * time.Hour,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Record implements StatsSink with one pipelined round trip.
func (s *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucket := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucket, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucket, s.ttl)
	}

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}
