// Package service implements the catalog operations on top of a document
// store.
package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/EcoTrail/internal/store"
	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
)

var fallbackServed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ecotrail",
		Name:      "catalog_fallback_served_total",
		Help:      "Responses served from the built-in demo data instead of the store.",
	},
	[]string{"resource", "reason"},
)

// Clock returns the current time. Tests replace it to get stable stamps.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// storeError converts a store failure into the API error returned to the
// caller. The message is the backend's own error text.
func storeError(operation string, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return apperrors.StoreUnavailable(operation)
	}
	var opErr *store.OpError
	if errors.As(err, &opErr) {
		return apperrors.StoreFailure(opErr.Err)
	}
	return apperrors.StoreFailure(err)
}
