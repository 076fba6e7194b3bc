package domain

// ImpactStats is the aggregated sustainability impact shown on the storefront.
type ImpactStats struct {
	TreesPlanted    int64   `json:"trees_planted" bson:"trees_planted"`
	BottlesRecycled int64   `json:"bottles_recycled" bson:"bottles_recycled"`
	CarbonOffsetKg  float64 `json:"carbon_offset_kg" bson:"carbon_offset_kg"`
}
