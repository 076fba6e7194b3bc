// Package catalog translates listing parameters into store queries and
// supplies the demo dataset served when no store is connected.
package catalog

import (
	"github.com/utafrali/EcoTrail/internal/query"
)

// Document fields referenced by catalog queries.
const (
	FieldTitle                  = "title"
	FieldDescription            = "description"
	FieldCategory               = "category"
	FieldActivityTypes          = "activity_types"
	FieldSeasons                = "seasons"
	FieldSustainabilityFeatures = "sustainability_features"
	FieldPrice                  = "price"
	FieldRating                 = "rating"
	FieldProductID              = "product_id"
	FieldSustainabilityRating   = "ratings.sustainability"
)

// ProductFilter holds the optional listing parameters. A nil field adds no
// constraint.
type ProductFilter struct {
	Query       *string
	Category    *string
	Activity    *string
	Season      *string
	Sustainable *string
	MinPrice    *float64
	MaxPrice    *float64
}

// TextSearch matches products whose title or description contains q,
// ignoring case.
func TextSearch(q string) query.Constraint {
	return query.TextContains{Fields: []string{FieldTitle, FieldDescription}, Text: q}
}

// CategoryIs matches products in exactly the given category.
func CategoryIs(category string) query.Constraint {
	return query.Equals{Field: FieldCategory, Value: category}
}

// ActivityIncludes matches products suited to the activity.
func ActivityIncludes(activity string) query.Constraint {
	return query.HasElement{Field: FieldActivityTypes, Value: activity}
}

// SeasonIncludes matches products rated for the season.
func SeasonIncludes(season string) query.Constraint {
	return query.HasElement{Field: FieldSeasons, Value: season}
}

// SustainabilityIncludes matches products carrying the sustainability
// feature tag.
func SustainabilityIncludes(feature string) query.Constraint {
	return query.HasElement{Field: FieldSustainabilityFeatures, Value: feature}
}

// PriceBetween matches products priced within [lo, hi]. Either bound may
// be nil. lo greater than hi is passed through and matches nothing.
func PriceBetween(lo, hi *float64) query.Constraint {
	return query.Range{Field: FieldPrice, Min: lo, Max: hi}
}

// Predicate combines the active parameters with AND. With no active
// parameters it matches every product.
func (f ProductFilter) Predicate() query.And {
	pred := query.And{}
	if f.Query != nil && *f.Query != "" {
		pred = append(pred, TextSearch(*f.Query))
	}
	if f.Category != nil {
		pred = append(pred, CategoryIs(*f.Category))
	}
	if f.Activity != nil {
		pred = append(pred, ActivityIncludes(*f.Activity))
	}
	if f.Season != nil {
		pred = append(pred, SeasonIncludes(*f.Season))
	}
	if f.Sustainable != nil {
		pred = append(pred, SustainabilityIncludes(*f.Sustainable))
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		pred = append(pred, PriceBetween(f.MinPrice, f.MaxPrice))
	}
	return pred
}

// ReviewFilter selects the reviews of one product, optionally only those
// whose sustainability rating is at least MinRating.
type ReviewFilter struct {
	ProductID string
	MinRating *int
}

// Predicate builds the review constraint.
func (f ReviewFilter) Predicate() query.And {
	pred := query.And{query.Equals{Field: FieldProductID, Value: f.ProductID}}
	if f.MinRating != nil {
		lo := float64(*f.MinRating)
		pred = append(pred, query.Range{Field: FieldSustainabilityRating, Min: &lo})
	}
	return pred
}
