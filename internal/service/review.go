package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/event"
	"github.com/utafrali/EcoTrail/internal/store"
	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
)

// ReviewService implements review submission and retrieval.
type ReviewService struct {
	store  store.Store
	events event.Publisher
	logger *slog.Logger
	now    Clock
}

// NewReviewService creates a review service.
func NewReviewService(st store.Store, events event.Publisher, logger *slog.Logger) *ReviewService {
	if events == nil {
		events = event.Noop{}
	}
	return &ReviewService{store: st, events: events, logger: logger, now: utcNow}
}

// CreateReview stores r and returns its new identifier. The product it
// references is not looked up.
func (s *ReviewService) CreateReview(ctx context.Context, r *domain.Review) (string, error) {
	if s.store == nil {
		return "", apperrors.StoreUnavailable("create review")
	}

	now := s.now()
	r.ID = ""
	r.CreatedAt = &now
	r.UpdatedAt = &now
	r.Normalize()

	id, err := s.store.Insert(ctx, store.CollectionReview, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create review",
			slog.String("product_id", r.ProductID),
			slog.String("error", err.Error()),
		)
		return "", storeError("create review", err)
	}
	r.ID = id

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", id),
		slog.String("product_id", r.ProductID),
	)

	if err := s.events.ReviewCreated(ctx, r); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review created event",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}

	return id, nil
}

// ListReviews returns every review matching f in store order.
func (s *ReviewService) ListReviews(ctx context.Context, f catalog.ReviewFilter) ([]domain.Review, error) {
	if s.store == nil {
		return nil, apperrors.StoreUnavailable("list reviews")
	}

	docs, err := s.store.Find(ctx, store.CollectionReview, f.Predicate(), store.FindOptions{})
	if err != nil {
		return nil, storeError("list reviews", err)
	}

	reviews, err := store.DecodeAll[domain.Review](s.store.Name(), store.CollectionReview, docs)
	if err != nil {
		return nil, storeError("list reviews", err)
	}
	return reviews, nil
}
