package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// DialTimeout also bounds the startup ping. Zero means one second.
	DialTimeout time.Duration
	// CommandTimeout bounds reads and writes. Zero means 500ms.
	CommandTimeout time.Duration
}

// NewRedisClient creates a traced Redis client and verifies the connection
// with a single ping. Callers treat Redis as optional, so startup does not
// retry.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = time.Second
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 500 * time.Millisecond
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.CommandTimeout,
		WriteTimeout: cfg.CommandTimeout,
	})
	client.AddHook(redisTraceHook{})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// redisTraceHook wraps every command in TraceQuery. Only the command name
// is recorded since keys may carry client addresses.
type redisTraceHook struct{}

func (redisTraceHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (redisTraceHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := TraceQuery(ctx, "redis", cmd.Name(), cmd.Name())
		err := next(ctx, cmd)
		if err == redis.Nil {
			end(nil)
		} else {
			end(err)
		}
		return err
	}
}

func (redisTraceHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, end := TraceQuery(ctx, "redis", "pipeline", fmt.Sprintf("%d commands", len(cmds)))
		err := next(ctx, cmds)
		end(err)
		return err
	}
}
