package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/EcoTrail/internal/service"
	"github.com/utafrali/EcoTrail/pkg/health"
	"github.com/utafrali/EcoTrail/pkg/middleware"
)

// RouterConfig carries the HTTP surface settings.
type RouterConfig struct {
	ServiceName        string
	Environment        string
	CORSAllowedOrigins []string
	PprofAllowedCIDRs  []string
	TrustedProxyCIDRs  []string
	RequestTimeout     time.Duration
	// WriteLimiter throttles the create endpoints. Nil disables it.
	WriteLimiter middleware.Limiter
}

// Services groups the application services the handlers call.
type Services struct {
	Products    *service.ProductService
	Reviews     *service.ReviewService
	Impact      *service.ImpactService
	Diagnostics *service.DiagnosticsService
}

// NewRouter creates a chi router with every catalog route registered.
func NewRouter(cfg RouterConfig, svc Services, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.TrustedProxies(cfg.TrustedProxyCIDRs, logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ExposedHeaders: []string{middleware.CorrelationIDHeader},
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	systemHandler := NewSystemHandler(svc.Diagnostics, logger)
	r.Get("/", systemHandler.Banner)
	r.With(middleware.CacheControl(middleware.CacheNoStore)).Get("/test", systemHandler.Diagnostics)

	productHandler := NewProductHandler(svc.Products, logger)
	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	impactHandler := NewImpactHandler(svc.Impact, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/reviews/{product_id}", reviewHandler.ListReviews)
		r.With(middleware.CacheControl(middleware.CacheShort)).Get("/impact", impactHandler.GetImpact)

		r.Group(func(r chi.Router) {
			if cfg.WriteLimiter != nil {
				r.Use(middleware.RateLimit(cfg.WriteLimiter, logger))
			}
			r.Use(ContentTypeJSON)
			r.Post("/products", productHandler.CreateProduct)
			r.Post("/reviews", reviewHandler.CreateReview)
		})
	})

	return r
}
