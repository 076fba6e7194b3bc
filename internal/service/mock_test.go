package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/internal/store"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock Store ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Name() string     { return "mock" }
func (m *mockStore) Database() string { return "ecotrail_test" }

func (m *mockStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Find(ctx context.Context, collection string, filter query.Constraint, opts store.FindOptions) ([]store.Document, error) {
	args := m.Called(ctx, collection, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Document), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, collection string, filter query.Constraint) (int64, error) {
	args := m.Called(ctx, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Collections(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) ProductCreated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPublisher) ReviewCreated(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

// badDocument fails to decode.
type badDocument struct{}

func (badDocument) ID() string       { return "bad" }
func (badDocument) Decode(any) error { return io.ErrUnexpectedEOF }
