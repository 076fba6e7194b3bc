package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/EcoTrail/internal/config"
	"github.com/utafrali/EcoTrail/internal/event"
	handler "github.com/utafrali/EcoTrail/internal/handler/http"
	"github.com/utafrali/EcoTrail/internal/service"
	"github.com/utafrali/EcoTrail/internal/store"
	"github.com/utafrali/EcoTrail/internal/store/memory"
	"github.com/utafrali/EcoTrail/internal/store/mongodb"
	"github.com/utafrali/EcoTrail/internal/store/postgres"
	"github.com/utafrali/EcoTrail/pkg/database"
	"github.com/utafrali/EcoTrail/pkg/health"
	pkgkafka "github.com/utafrali/EcoTrail/pkg/kafka"
	"github.com/utafrali/EcoTrail/pkg/middleware"
	"github.com/utafrali/EcoTrail/pkg/tracing"
)

// defaultDatabaseName is reported by the memory store when DATABASE_NAME is
// unset.
const defaultDatabaseName = "ecotrail"

// App wires together all dependencies and runs the catalog API.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// store is nil when no database could be reached.
	store          store.Store
	producer       *pkgkafka.Producer
	rdb            *redis.Client
	localLimiter   *middleware.LocalLimiter
	tracerShutdown func(context.Context) error
	handler        http.Handler
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// A store that cannot be reached is not an error: the API starts without
// one and serves the demo catalog.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)

	st, err := OpenStore(ctx, cfg, logger)
	switch {
	case errors.Is(err, ErrNoStore):
		logger.Warn("DATABASE_URL not set, serving demo catalog", slog.String("driver", cfg.StoreDriver))
	case err != nil:
		logger.Error("store connection failed, serving demo catalog",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", err.Error()),
		)
	default:
		a.store = st
	}

	// Kafka producer.
	var publisher event.Publisher = event.Noop{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	limiter := a.writeLimiter(ctx)

	// Health checks.
	healthHandler := health.NewHandler()
	if a.store != nil {
		healthHandler.RegisterCritical("store", health.PingChecker(a.store))
	}
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", health.PingChecker(a.producer))
	}
	if a.rdb != nil {
		healthHandler.RegisterNonCritical("redis", health.RedisChecker(a.rdb))
	}

	svc := handler.Services{
		Products:    service.NewProductService(a.store, publisher, logger),
		Reviews:     service.NewReviewService(a.store, publisher, logger),
		Impact:      service.NewImpactService(a.store, logger),
		Diagnostics: service.NewDiagnosticsService(a.store, cfg.DatabaseURL != "", cfg.DatabaseName != ""),
	}

	a.handler = handler.NewRouter(handler.RouterConfig{
		ServiceName:        config.ServiceName,
		Environment:        cfg.Environment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
		TrustedProxyCIDRs:  cfg.TrustedProxyCIDRs,
		RequestTimeout:     cfg.RequestTimeout(),
		WriteLimiter:       limiter,
	}, svc, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// ErrNoStore is returned by OpenStore when no database is configured.
var ErrNoStore = errors.New("no store configured")

// OpenStore connects the configured backend and wraps it with
// instrumentation. Postgres schema migrations are applied before it is
// returned.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if !cfg.StoreConfigured() {
		return nil, ErrNoStore
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		name := cfg.DatabaseName
		if name == "" {
			name = defaultDatabaseName
		}
		st = memory.New(name)
	case config.DriverPostgres:
		st, err = openPostgres(ctx, cfg, logger)
	default:
		st, err = openMongo(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("store connected",
		slog.String("backend", st.Name()),
		slog.String("database", st.Database()),
	)
	return store.Instrument(st), nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	st, err := mongodb.Connect(ctx, mongodb.Config{
		URL:              cfg.DatabaseURL,
		Database:         cfg.DatabaseName,
		ConnectTimeout:   cfg.ConnectTimeout(),
		OperationTimeout: cfg.OperationTimeout(),
	}, logger)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, logger)
	if err != nil {
		return nil, err
	}

	st := postgres.New(pool, cfg.DatabaseName)
	if err := st.Migrate(ctx, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, config.ServiceName); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
		}
	}
	return st, nil
}

// writeLimiter builds the limiter for the create endpoints: Redis backed
// when REDIS_ADDR is set and reachable, in process otherwise.
func (a *App) writeLimiter(ctx context.Context) middleware.Limiter {
	cfg := a.cfg
	if !cfg.RateLimitEnabled {
		return nil
	}

	if cfg.RedisAddr != "" {
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			a.rdb = rdb
			a.logger.Info("connected to Redis",
				slog.String("addr", cfg.RedisAddr),
				slog.Int("db", cfg.RedisDB),
			)
			return middleware.NewRedisLimiter(rdb, int(math.Ceil(cfg.RateLimitRPS)), cfg.RateLimitBurst, time.Second)
		}
		a.logger.Warn("redis unavailable, rate limiting in process",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
	}

	a.localLimiter = middleware.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 0)
	return a.localLimiter
}

// Handler returns the HTTP handler with every route registered.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.store != nil {
		if err := a.store.Close(shutdownCtx); err != nil {
			a.logger.Error("store close error", slog.String("error", err.Error()))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.localLimiter != nil {
		a.localLimiter.Close()
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
