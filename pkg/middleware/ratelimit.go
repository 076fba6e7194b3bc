package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/httputil"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over the limiter's budget with 429
// RATE_LIMITED, keyed by client IP. Limiter errors are logged and the
// request is let through.
func RateLimit(l Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, err := l.Allow(r.Context(), ip)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					slog.String("ip", ip),
					slog.String("error", err.Error()),
				)
				ok = true
			}
			if !ok {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteError(w, r, apperrors.RateLimited(), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per key. Keys idle for longer
// than the TTL are evicted by a background sweep until Close is called.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewLocalLimiter allows rps requests per second per key with the given
// burst.
func NewLocalLimiter(rps float64, burst int, ttl time.Duration) *LocalLimiter {
	l := newLocalLimiter(rps, burst, ttl, time.Now)
	go l.cleanupLoop()
	return l
}

func newLocalLimiter(rps float64, burst int, ttl time.Duration, now func() time.Time) *LocalLimiter {
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      now,
		done:     make(chan struct{}),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Close stops the eviction sweep.
func (l *LocalLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *LocalLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.done:
			return
		}
	}
}

func (l *LocalLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
		}
	}
}

func (l *LocalLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RedisLimiter is a fixed-window counter shared by every replica. The
// window opens on a key's first request; each key may make limit+burst
// requests before it expires.
type RedisLimiter struct {
	client goredis.Cmdable
	max    int64
	window time.Duration
	prefix string
}

// NewRedisLimiter builds a limiter on an existing client. A non-positive
// window defaults to one second.
func NewRedisLimiter(client goredis.Cmdable, limit, burst int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Second
	}
	return &RedisLimiter{
		client: client,
		max:    int64(limit + burst),
		window: window,
		prefix: "ecotrail:ratelimit",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}
	return l.max <= 0 || count <= l.max, nil
}
