package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLocalLimiter_BurstThenDeny(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newLocalLimiter(1, 2, time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "203.0.113.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "203.0.113.1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "203.0.113.2")
	assert.True(t, ok, "keys are independent")

	clock.Advance(time.Second)
	ok, _ = l.Allow(ctx, "203.0.113.1")
	assert.True(t, ok, "token refilled")
}

func TestLocalLimiter_CleanupEvictsIdleKeys(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newLocalLimiter(10, 10, time.Minute, clock.Now)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a")
	clock.Advance(45 * time.Second)
	_, _ = l.Allow(ctx, "b")
	clock.Advance(30 * time.Second)

	l.cleanup()
	assert.Equal(t, 1, l.size())
}

func TestLocalLimiter_CloseIsIdempotent(t *testing.T) {
	l := NewLocalLimiter(5, 5, time.Minute)
	l.Close()
	assert.NotPanics(t, l.Close)
}

func setupRedisLimiter(t *testing.T, limit, burst int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, limit, burst, time.Minute), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	l, mr := setupRedisLimiter(t, 2, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "198.51.100.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := l.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("ecotrail:ratelimit:198.51.100.1"))
	assert.Equal(t, time.Minute, mr.TTL("ecotrail:ratelimit:198.51.100.1"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, ok, "window reset")
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	l, mr := setupRedisLimiter(t, 1, 0)
	mr.Close()

	_, err := l.Allow(context.Background(), "198.51.100.1")
	assert.Error(t, err)
}

type stubLimiter struct {
	ok  bool
	err error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.ok, s.err }

func TestRateLimit_Middleware(t *testing.T) {
	tests := []struct {
		name    string
		limiter Limiter
		status  int
	}{
		{"allowed", stubLimiter{ok: true}, http.StatusOK},
		{"denied", stubLimiter{ok: false}, http.StatusTooManyRequests},
		{"limiter error fails open", stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RateLimit(tt.limiter, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "1", rec.Header().Get("Retry-After"))
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "RATE_LIMITED", body.Error.Code)
			}
		})
	}
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newLocalLimiter(1, 1, time.Minute, clock.Now)
	handler := RateLimit(l, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2"))
}

func TestRateLimit_ForwardedForNeedsTrustedPeer(t *testing.T) {
	tests := []struct {
		name     string
		trusted  []string
		wantNext int
	}{
		{"spoofed header shares the peer budget", nil, http.StatusTooManyRequests},
		{"trusted proxy forwards distinct clients", []string{"192.0.2.0/24"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
			l := newLocalLimiter(1, 1, time.Minute, clock.Now)
			noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			handler := TrustedProxies(tt.trusted, discardLogger())(RateLimit(l, discardLogger())(noop))

			send := func(forwardedFor string) int {
				req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
				req.RemoteAddr = "192.0.2.1:4000"
				req.Header.Set("X-Forwarded-For", forwardedFor)
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)
				return rec.Code
			}

			assert.Equal(t, http.StatusOK, send("203.0.113.1"))
			assert.Equal(t, tt.wantNext, send("203.0.113.2"))
		})
	}
}
