package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/internal/store"
)

// ImpactService reads the aggregated impact record.
type ImpactService struct {
	store  store.Store
	logger *slog.Logger
}

// NewImpactService creates an impact service.
func NewImpactService(st store.Store, logger *slog.Logger) *ImpactService {
	return &ImpactService{store: st, logger: logger}
}

// GetImpact returns the first impact record. A missing store, a missing
// record or any store failure yields catalog.FallbackImpact. Only errors
// that did not come from the store are returned.
func (s *ImpactService) GetImpact(ctx context.Context) (domain.ImpactStats, error) {
	stats, found, err := s.read(ctx)
	stats, recovered, err := store.Recover(stats, err, catalog.FallbackImpact)
	if err != nil {
		return domain.ImpactStats{}, err
	}

	switch {
	case recovered:
		fallbackServed.WithLabelValues("impact", "store_error").Inc()
		s.logger.WarnContext(ctx, "impact read failed, serving fallback")
	case !found:
		fallbackServed.WithLabelValues("impact", "no_record").Inc()
		stats = catalog.FallbackImpact
	}
	return stats, nil
}

func (s *ImpactService) read(ctx context.Context) (domain.ImpactStats, bool, error) {
	var stats domain.ImpactStats
	if s.store == nil {
		return stats, false, store.ErrUnavailable
	}

	docs, err := s.store.Find(ctx, store.CollectionImpact, query.And{}, store.FindOptions{Limit: 1})
	if err != nil {
		return stats, false, err
	}
	if len(docs) == 0 {
		return stats, false, nil
	}
	if err := docs[0].Decode(&stats); err != nil {
		return stats, false, &store.OpError{Backend: s.store.Name(), Op: "decode", Collection: store.CollectionImpact, Err: err}
	}
	return stats, true, nil
}
