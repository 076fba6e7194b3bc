// Package memory is an in-process document store. Documents are kept as
// JSON in insertion order and filtered by evaluating query constraints
// directly.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/internal/store"
)

// Name is the backend system name reported by the store.
const Name = "memory"

var errClosed = errors.New("store closed")

type entry struct {
	id   string
	body []byte
}

// Document is a stored JSON document.
type Document struct {
	id   string
	body []byte
}

// ID implements store.Document.
func (d Document) ID() string { return d.id }

// Decode implements store.Document.
func (d Document) Decode(v any) error { return json.Unmarshal(d.body, v) }

// Store is a thread-safe in-memory document store.
type Store struct {
	database string

	mu          sync.RWMutex
	collections map[string][]entry
	closed      bool
}

var _ store.Store = (*Store)(nil)

// New creates an empty store reporting database as its database name.
func New(database string) *Store {
	return &Store{database: database, collections: make(map[string][]entry)}
}

// Name implements store.Store.
func (s *Store) Name() string { return Name }

// Database implements store.Store.
func (s *Store) Database() string { return s.database }

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errClosed
	}
	s.collections[collection] = append(s.collections[collection], entry{id: id, body: body})
	return id, nil
}

type match struct {
	entry
	doc map[string]any
}

func (s *Store) matching(ctx context.Context, collection string, filter query.Constraint) ([]match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, errClosed
	}
	entries := append([]entry(nil), s.collections[collection]...)
	s.mu.RUnlock()

	var out []match
	for _, e := range entries {
		var doc map[string]any
		if err := json.Unmarshal(e.body, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", e.id, err)
		}
		if filter == nil || filter.Match(doc) {
			out = append(out, match{entry: e, doc: doc})
		}
	}
	return out, nil
}

// Find implements store.Store. A negative Skip is rejected; a negative Limit
// returns at most |Limit| documents. math.MinInt64 has no positive
// counterpart and means no limit.
func (s *Store) Find(ctx context.Context, collection string, filter query.Constraint, opts store.FindOptions) ([]store.Document, error) {
	if opts.Skip < 0 {
		return nil, fmt.Errorf("skip must be non-negative, got %d", opts.Skip)
	}

	matches, err := s.matching(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	query.SortBy(matches, func(m match) map[string]any { return m.doc }, opts.Sort)

	limit := opts.Limit
	if limit < 0 {
		limit = -limit
	}
	n := int64(len(matches))
	start := min(opts.Skip, n)
	end := n
	// Compared against the remainder so start+limit cannot overflow.
	if limit > 0 && limit < n-start {
		end = start + limit
	}

	docs := make([]store.Document, 0, end-start)
	for _, m := range matches[start:end] {
		docs = append(docs, Document{id: m.id, body: m.body})
	}
	return docs, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, collection string, filter query.Constraint) (int64, error) {
	matches, err := s.matching(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return ctx.Err()
}

// Collections implements store.Store. Names are sorted.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close implements store.Store. Subsequent operations fail.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
