package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/pkg/database"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotrail_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"backend", "operation", "collection", "status"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecotrail_store_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation", "collection"},
	)
)

// Instrumented decorates a Store with a trace span, Prometheus metrics and
// slow-operation logging for every call. Errors that are not already typed
// are wrapped in *OpError so callers can classify them with IsStoreError.
type Instrumented struct {
	next Store
}

// Instrument wraps s. A nil s stays nil so an unconfigured store is still
// detectable by the caller.
func Instrument(s Store) Store {
	if s == nil {
		return nil
	}
	return &Instrumented{next: s}
}

// Unwrap returns the decorated store.
func (s *Instrumented) Unwrap() Store { return s.next }

func (s *Instrumented) observe(ctx context.Context, op, collection, statement string) (context.Context, func(error) error) {
	start := time.Now()
	ctx, end := database.TraceQuery(ctx, s.next.Name(), op, statement)
	return ctx, func(err error) error {
		if err != nil {
			var opErr *OpError
			if !errors.As(err, &opErr) && !errors.Is(err, ErrUnavailable) {
				err = &OpError{Backend: s.next.Name(), Op: op, Collection: collection, Err: err}
			}
		}
		end(err)

		status := "ok"
		if err != nil {
			status = "error"
		}
		storeOperationsTotal.WithLabelValues(s.next.Name(), op, collection, status).Inc()
		storeOperationDuration.WithLabelValues(s.next.Name(), op, collection).Observe(time.Since(start).Seconds())
		return err
	}
}

// Name implements Store.
func (s *Instrumented) Name() string { return s.next.Name() }

// Database implements Store.
func (s *Instrumented) Database() string { return s.next.Database() }

// Insert implements Store.
func (s *Instrumented) Insert(ctx context.Context, collection string, doc any) (string, error) {
	ctx, done := s.observe(ctx, "insert", collection, collection)
	id, err := s.next.Insert(ctx, collection, doc)
	return id, done(err)
}

// Find implements Store.
func (s *Instrumented) Find(ctx context.Context, collection string, filter query.Constraint, opts FindOptions) ([]Document, error) {
	ctx, done := s.observe(ctx, "find", collection, collection+" where "+describe(filter))
	docs, err := s.next.Find(ctx, collection, filter, opts)
	return docs, done(err)
}

// Count implements Store.
func (s *Instrumented) Count(ctx context.Context, collection string, filter query.Constraint) (int64, error) {
	ctx, done := s.observe(ctx, "count", collection, collection+" where "+describe(filter))
	n, err := s.next.Count(ctx, collection, filter)
	return n, done(err)
}

// Ping implements Store.
func (s *Instrumented) Ping(ctx context.Context) error {
	ctx, done := s.observe(ctx, "ping", "", "ping")
	return done(s.next.Ping(ctx))
}

// Collections implements Store.
func (s *Instrumented) Collections(ctx context.Context) ([]string, error) {
	ctx, done := s.observe(ctx, "collections", "", "list collections")
	names, err := s.next.Collections(ctx)
	return names, done(err)
}

// Close implements Store.
func (s *Instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func describe(c query.Constraint) string {
	if c == nil {
		return "true"
	}
	return c.String()
}
