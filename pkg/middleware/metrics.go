package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "ecotrail"

// unmatchedRoute labels requests that no chi route claimed.
const unmatchedRoute = "unmatched"

var requestLabels = []string{"service", "method", "route", "code"}

var (
	requestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests served, by route pattern and response code.",
	}, requestLabels)

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time from first byte read to handler return.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, requestLabels)

	responseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "Response body size.",
		Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
	}, []string{"service", "route"})

	requestsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being handled.",
	}, []string{"service"})
)

// routeLabel prefers the matched chi pattern so /api/reviews/{product_id}
// is one series regardless of the id.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// PrometheusMetrics instruments every request served by the catalog API.
func PrometheusMetrics(service string) func(http.Handler) http.Handler {
	active := requestsActive.WithLabelValues(service)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			active.Inc()
			started := time.Now()
			rec := newStatusRecorder(w)

			defer func() {
				active.Dec()
				route := routeLabel(r)
				code := strconv.Itoa(rec.status)
				requestsServed.WithLabelValues(service, r.Method, route, code).Inc()
				requestLatency.WithLabelValues(service, r.Method, route, code).Observe(time.Since(started).Seconds())
				responseBytes.WithLabelValues(service, route).Observe(float64(rec.bytes))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
