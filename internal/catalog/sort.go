package catalog

import (
	"fmt"

	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/query"
)

// ResolveSort maps a sort mode to its ordering keys. relevance, newest,
// best_sellers and most_sustainable have no ordering and keep store order.
func ResolveSort(mode string) ([]query.SortKey, error) {
	switch mode {
	case domain.SortPriceAsc:
		return []query.SortKey{{Field: FieldPrice}}, nil
	case domain.SortPriceDesc:
		return []query.SortKey{{Field: FieldPrice, Descending: true}}, nil
	case domain.SortHighestRated:
		return []query.SortKey{{Field: FieldRating, Descending: true}}, nil
	case domain.SortRelevance, domain.SortNewest, domain.SortBestSellers, domain.SortMostSustainable:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown sort mode %q", mode)
	}
}
