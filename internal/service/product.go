package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/event"
	"github.com/utafrali/EcoTrail/internal/store"
	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/pagination"
)

// ListProductsInput holds the parameters of a product listing.
type ListProductsInput struct {
	Filter catalog.ProductFilter
	Sort   string
	Page   pagination.Params
}

// ProductList is one page of products.
type ProductList struct {
	Items    []domain.Product
	Total    int64
	Page     int
	PageSize int
	// Fallback is set when the items come from the demo catalog.
	Fallback bool
}

// ProductService implements product listing and creation. A nil store means
// no database is connected.
type ProductService struct {
	store  store.Store
	events event.Publisher
	logger *slog.Logger
	now    Clock
}

// NewProductService creates a product service.
func NewProductService(st store.Store, events event.Publisher, logger *slog.Logger) *ProductService {
	if events == nil {
		events = event.Noop{}
	}
	return &ProductService{store: st, events: events, logger: logger, now: utcNow}
}

// ListProducts returns the requested page of products matching the filter.
// Without a store the demo catalog is paged instead and the filter is not
// applied to it.
func (s *ProductService) ListProducts(ctx context.Context, in ListProductsInput) (*ProductList, error) {
	mode := in.Sort
	if mode == "" {
		mode = domain.DefaultSort
	}
	keys, err := catalog.ResolveSort(mode)
	if err != nil {
		return nil, apperrors.InvalidParameter("sort", in.Sort, "unknown sort mode")
	}

	if s.store == nil {
		return s.fallbackList(ctx, in.Page), nil
	}

	pred := in.Filter.Predicate()
	window := in.Page.Window()

	total, err := s.store.Count(ctx, store.CollectionProduct, pred)
	if err != nil {
		return nil, storeError("list products", err)
	}

	docs, err := s.store.Find(ctx, store.CollectionProduct, pred, store.FindOptions{
		Sort:  keys,
		Skip:  int64(window.Offset),
		Limit: int64(window.Limit),
	})
	if err != nil {
		return nil, storeError("list products", err)
	}

	items, err := store.DecodeAll[domain.Product](s.store.Name(), store.CollectionProduct, docs)
	if err != nil {
		return nil, storeError("list products", err)
	}

	return &ProductList{
		Items:    items,
		Total:    total,
		Page:     in.Page.Page,
		PageSize: in.Page.PageSize,
	}, nil
}

func (s *ProductService) fallbackList(ctx context.Context, page pagination.Params) *ProductList {
	demo := catalog.FallbackProducts()
	fallbackServed.WithLabelValues("product", "no_store").Inc()
	s.logger.WarnContext(ctx, "no store connected, serving demo catalog",
		slog.Int("page", page.Page),
		slog.Int("page_size", page.PageSize),
	)
	return &ProductList{
		Items:    pagination.Slice(demo, page),
		Total:    int64(len(demo)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Fallback: true,
	}
}

// CreateProduct stores p and returns its new identifier. p.ID and the
// timestamps are set on success.
func (s *ProductService) CreateProduct(ctx context.Context, p *domain.Product) (string, error) {
	if s.store == nil {
		return "", apperrors.StoreUnavailable("create product")
	}

	now := s.now()
	p.ID = ""
	p.CreatedAt = &now
	p.UpdatedAt = &now
	p.Normalize()

	id, err := s.store.Insert(ctx, store.CollectionProduct, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create product", slog.String("error", err.Error()))
		return "", storeError("create product", err)
	}
	p.ID = id

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", id),
		slog.String("category", p.Category),
	)

	if err := s.events.ProductCreated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product created event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return id, nil
}
