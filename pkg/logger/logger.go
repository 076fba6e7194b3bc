// Package logger builds the JSON slog loggers used across the catalog API and
// carries request identity (correlation id, client address, trace) through
// context.Context so every log line of a request can be joined.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	requestKey ctxKey = iota
	loggerKey
)

// request holds the per-request identity attached by the HTTP middleware.
type request struct {
	correlationID string
	clientIP      string
}

func requestFrom(ctx context.Context) request {
	r, _ := ctx.Value(requestKey).(request)
	return r
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield
// slog.LevelInfo and false.
func ParseLevel(level string) (slog.Level, bool) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return slog.LevelInfo, false
	}
	return lvl, true
}

// New returns a JSON logger on stdout tagged with service.
func New(service, level string) *slog.Logger {
	return NewWithWriter(service, level, os.Stdout)
}

// NewWithWriter is New with an explicit destination. Source locations are
// included at debug level only.
func NewWithWriter(service, level string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With(slog.String("service", service))
}

// WithCorrelationID returns ctx carrying the request's correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	r := requestFrom(ctx)
	r.correlationID = id
	return context.WithValue(ctx, requestKey, r)
}

// CorrelationIDFromContext returns the id set by WithCorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return requestFrom(ctx).correlationID
}

// WithClientIP returns ctx carrying the caller's address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	r := requestFrom(ctx)
	r.clientIP = ip
	return context.WithValue(ctx, requestKey, r)
}

// ClientIPFromContext returns the address set by WithClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	return requestFrom(ctx).clientIP
}

// NewContext stores l as the request-scoped logger.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored by NewContext, falling back to
// slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext decorates l with whatever request identity ctx carries:
// correlation_id, client_ip, trace_id and span_id. Absent values are omitted.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	var attrs []any
	r := requestFrom(ctx)
	if r.correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", r.correlationID))
	}
	if r.clientIP != "" {
		attrs = append(attrs, slog.String("client_ip", r.clientIP))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}
