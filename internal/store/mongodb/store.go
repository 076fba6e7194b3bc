// Package mongodb is the MongoDB document store backend.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/internal/store"
	"github.com/utafrali/EcoTrail/pkg/database"
)

// Name is the backend system name reported by the store.
const Name = "mongodb"

// Config holds MongoDB store configuration.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// Store is a MongoDB-backed document store.
type Store struct {
	client   *mongo.Client
	database string
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
}

var _ store.Store = (*Store)(nil)

// Connect dials MongoDB and verifies connectivity with a primary ping,
// retrying transient startup failures.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("mongodb URL is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	var client *mongo.Client
	err := database.WithRetry(ctx, logger, "mongodb", func(ctx context.Context) error {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		c, err := mongo.Connect(connectCtx, opts)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if err := c.Ping(connectCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("ping: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("mongodb connection established", slog.String("database", cfg.Database))
	}
	return NewFromClient(client, cfg.Database, cfg.OperationTimeout), nil
}

// NewFromClient wraps an existing client. A zero timeout leaves operation
// deadlines to the caller's context.
func NewFromClient(client *mongo.Client, database string, timeout time.Duration) *Store {
	return &Store{client: client, database: database, timeout: timeout}
}

// Name implements store.Store.
func (s *Store) Name() string { return Name }

// Database implements store.Store.
func (s *Store) Database() string { return s.database }

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.database).Collection(name)
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("mongodb store is closed")
	}
	return nil
}

func (s *Store) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Insert implements store.Store. The generated _id is returned as a hex string.
func (s *Store) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	res, err := s.collection(collection).InsertOne(opCtx, doc)
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, collection string, filter query.Constraint, opts store.FindOptions) ([]store.Document, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	findOpts := options.Find()
	if sortDoc := RenderSort(opts.Sort); sortDoc != nil {
		findOpts.SetSort(sortDoc)
	}
	if opts.Skip != 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit != 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := s.collection(collection).Find(opCtx, RenderFilter(filter), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(opCtx)

	docs := make([]store.Document, 0)
	for cur.Next(opCtx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		docs = append(docs, Document{raw: raw})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, collection string, filter query.Constraint) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	return s.collection(collection).CountDocuments(opCtx, RenderFilter(filter))
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()
	return s.client.Ping(opCtx, readpref.Primary())
}

// Collections implements store.Store. Names are sorted.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	names, err := s.client.Database(s.database).ListCollectionNames(opCtx, bson.D{})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Close implements store.Store. Closing twice is a no-op.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

// Document is a raw BSON document read from a collection.
type Document struct {
	raw bson.Raw
}

// NewDocument wraps raw BSON.
func NewDocument(raw bson.Raw) Document { return Document{raw: raw} }

// ID implements store.Document. ObjectIDs are rendered as hex.
func (d Document) ID() string {
	v, err := d.raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return v.String()
}

// Decode implements store.Document.
func (d Document) Decode(v any) error {
	return bson.Unmarshal(d.raw, v)
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
