package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	pkgconfig "github.com/utafrali/EcoTrail/pkg/config"
	"github.com/utafrali/EcoTrail/pkg/tracing"
)

// ServiceName identifies the API in logs, metrics and traces.
const ServiceName = "ecotrail-api"

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the catalog API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	Port               int      `env:"PORT" envDefault:"8000"`
	RequestTimeoutSecs int      `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Document store. DATABASE_URL and DATABASE_NAME are optional; without
	// them the listing and impact endpoints serve the demo data.
	StoreDriver               string `env:"STORE_DRIVER" envDefault:"mongo"`
	DatabaseURL               string `env:"DATABASE_URL"`
	DatabaseName              string `env:"DATABASE_NAME"`
	StoreConnectTimeoutSecs   int    `env:"STORE_CONNECT_TIMEOUT_SECONDS" envDefault:"5"`
	StoreOperationTimeoutSecs int    `env:"STORE_OPERATION_TIMEOUT_SECONDS" envDefault:"10"`

	// Postgres pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Rate limiting of the create endpoints
	RateLimitEnabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst   int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Redis, shared rate limit counters. Empty address keeps limits in
	// process.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	Tracing tracing.Config

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Reverse proxies whose X-Forwarded-For and X-Real-IP headers are
	// believed. Empty means the TCP peer is always the client.
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load ecotrail config: %w", err)
	}
	cfg.Tracing.ServiceName = ServiceName
	cfg.Tracing.Environment = cfg.Environment
	return cfg, nil
}

// Validate implements pkgconfig.Validator.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Port)
	}
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s; got %q",
			DriverMongo, DriverPostgres, DriverMemory, c.StoreDriver)
	}
	if c.StoreConnectTimeoutSecs <= 0 {
		return errors.New("STORE_CONNECT_TIMEOUT_SECONDS must be positive")
	}
	if c.StoreOperationTimeoutSecs < 0 {
		return errors.New("STORE_OPERATION_TIMEOUT_SECONDS must not be negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %g", c.RateLimitRPS)
		}
		if c.RateLimitBurst < 1 {
			return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
		}
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	for _, cidr := range c.PprofAllowedCIDRs {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return fmt.Errorf("invalid PPROF_ALLOWED_CIDRS entry %q: %w", cidr, err)
		}
	}
	for _, cidr := range c.TrustedProxyCIDRs {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXY_CIDRS entry %q: %w", cidr, err)
		}
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return nil
}

// StoreConfigured reports whether a store connection should be attempted.
// The memory driver needs no connection settings.
func (c *Config) StoreConfigured() bool {
	return c.StoreDriver == DriverMemory || c.DatabaseURL != ""
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.StoreConnectTimeoutSecs) * time.Second
}

func (c *Config) OperationTimeout() time.Duration {
	return time.Duration(c.StoreOperationTimeoutSecs) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
