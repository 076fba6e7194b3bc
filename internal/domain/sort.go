package domain

// Sort modes accepted by the product listing.
const (
	SortRelevance       = "relevance"
	SortPriceAsc        = "price_asc"
	SortPriceDesc       = "price_desc"
	SortNewest          = "newest"
	SortBestSellers     = "best_sellers"
	SortHighestRated    = "highest_rated"
	SortMostSustainable = "most_sustainable"
)

// DefaultSort is used when the request does not name a sort mode.
const DefaultSort = SortRelevance

// ValidSorts returns the accepted sort modes in display order.
func ValidSorts() []string {
	return []string{
		SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest,
		SortBestSellers, SortHighestRated, SortMostSustainable,
	}
}

// IsValidSort reports whether s is an accepted sort mode.
func IsValidSort(s string) bool {
	for _, v := range ValidSorts() {
		if v == s {
			return true
		}
	}
	return false
}
