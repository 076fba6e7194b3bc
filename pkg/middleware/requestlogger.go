package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/EcoTrail/pkg/logger"
)

// RequestLogger binds base, decorated with the request's identity, to the
// request context so handlers and services can call logger.FromContext.
// Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scoped := logger.WithContext(r.Context(), base)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), scoped)))
		})
	}
}
