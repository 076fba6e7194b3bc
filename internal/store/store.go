// Package store defines the document persistence contract used by the
// catalog and the helpers shared by its backends.
package store

import (
	"context"

	"github.com/utafrali/EcoTrail/internal/query"
)

// Collection names.
const (
	CollectionProduct = "product"
	CollectionReview  = "review"
	CollectionImpact  = "impactstats"
)

// Document is a stored record as returned by a backend, before it is
// decoded into a domain type.
type Document interface {
	// ID returns the store-assigned identifier as a string.
	ID() string
	// Decode unmarshals the document body into v.
	Decode(v any) error
}

// FindOptions controls ordering and windowing of Find. Skip and Limit are
// passed to the backend unchanged. A zero Limit means no limit.
type FindOptions struct {
	Sort  []query.SortKey
	Skip  int64
	Limit int64
}

// Store is a document store addressed by collection name.
type Store interface {
	// Name is the backend system name ("mongodb", "postgresql", "memory").
	Name() string
	// Database is the name of the connected database.
	Database() string

	Insert(ctx context.Context, collection string, doc any) (string, error)
	// Find returns the matching documents; an empty result is an empty,
	// non-nil slice.
	Find(ctx context.Context, collection string, filter query.Constraint, opts FindOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filter query.Constraint) (int64, error)

	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}
