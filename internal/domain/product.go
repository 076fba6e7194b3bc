package domain

import (
	"time"
)

// Stock availability values. Availability is free text; these are the
// values the storefront renders specially.
const (
	AvailabilityInStock   = "in stock"
	AvailabilityPreOrder  = "pre-order"
	AvailabilityBackorder = "backorder"
)

// DefaultCurrency is applied when a product is created without one.
const DefaultCurrency = "USD"

// Product is a catalog entry. ID is assigned by the store on creation and is
// never persisted inside the document body.
type Product struct {
	ID                     string            `json:"id,omitempty" bson:"-"`
	Title                  string            `json:"title" bson:"title"`
	Description            *string           `json:"description" bson:"description"`
	Brand                  *string           `json:"brand" bson:"brand"`
	Category               string            `json:"category" bson:"category"`
	Subcategories          []string          `json:"subcategories" bson:"subcategories"`
	ActivityTypes          []string          `json:"activity_types" bson:"activity_types"`
	Seasons                []string          `json:"seasons" bson:"seasons"`
	SustainabilityFeatures []string          `json:"sustainability_features" bson:"sustainability_features"`
	SpecialFeatures        []string          `json:"special_features" bson:"special_features"`
	Images                 []string          `json:"images" bson:"images"`
	Price                  float64           `json:"price" bson:"price"`
	SalePrice              *float64          `json:"sale_price" bson:"sale_price"`
	Currency               string            `json:"currency" bson:"currency"`
	Rating                 float64           `json:"rating" bson:"rating"`
	ReviewCount            int               `json:"review_count" bson:"review_count"`
	InStock                bool              `json:"in_stock" bson:"in_stock"`
	Availability           string            `json:"availability" bson:"availability"`
	EcoBadge               *string           `json:"eco_badge" bson:"eco_badge"`
	Specs                  map[string]string `json:"specs" bson:"specs"`
	CreatedAt              *time.Time        `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt              *time.Time        `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// SetID implements the store identity hook used when decoding documents.
func (p *Product) SetID(id string) { p.ID = id }

// Normalize replaces absent collections with empty ones so every product
// serializes with the same shape regardless of how it was stored.
func (p *Product) Normalize() {
	p.Subcategories = nonNil(p.Subcategories)
	p.ActivityTypes = nonNil(p.ActivityTypes)
	p.Seasons = nonNil(p.Seasons)
	p.SustainabilityFeatures = nonNil(p.SustainabilityFeatures)
	p.SpecialFeatures = nonNil(p.SpecialFeatures)
	p.Images = nonNil(p.Images)
	if p.Specs == nil {
		p.Specs = map[string]string{}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
