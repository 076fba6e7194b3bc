package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_TracesCommands(t *testing.T) {
	exporter := setupTestTracer(t)
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Incr(context.Background(), "ecotrail:ratelimit:192.0.2.1").Err())

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
		if s.Name == "db.incr" {
			attrs := spanAttrs(s)
			assert.Equal(t, "redis", attrs["db.system"])
			assert.NotContains(t, attrs["db.statement"], "192.0.2.1")
		}
	}
	assert.Contains(t, names, "db.ping")
	assert.Contains(t, names, "db.incr")
}

func TestNewRedisClient_MissingKeyIsNotAnError(t *testing.T) {
	exporter := setupTestTracer(t)
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_ = client.Get(context.Background(), "absent").Err()

	for _, s := range exporter.GetSpans() {
		if s.Name == "db.get" {
			assert.Empty(t, s.Events)
		}
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr, DialTimeout: 200 * time.Millisecond})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis at "+addr)
}
