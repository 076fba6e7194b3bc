package domain

import (
	"time"
)

// Rating dimensions recognized by the storefront. Ratings is open ended and
// may carry other keys.
const (
	RatingDurability        = "durability"
	RatingComfort           = "comfort"
	RatingWeatherResistance = "weather_resistance"
	RatingValue             = "value"
	RatingSustainability    = "sustainability"
	RatingPerformance       = "performance"
)

// Review is a customer review of a product. ProductID is not checked against
// the product collection.
type Review struct {
	ID               string         `json:"id,omitempty" bson:"-"`
	ProductID        string         `json:"product_id" bson:"product_id"`
	Title            string         `json:"title" bson:"title"`
	Body             string         `json:"body" bson:"body"`
	Photos           []string       `json:"photos" bson:"photos"`
	Videos           []string       `json:"videos" bson:"videos"`
	VerifiedPurchase bool           `json:"verified_purchase" bson:"verified_purchase"`
	DaysTested       *int           `json:"days_tested" bson:"days_tested"`
	Ratings          map[string]int `json:"ratings" bson:"ratings"`
	ActivityUsed     *string        `json:"activity_used" bson:"activity_used"`
	SeasonTested     *string        `json:"season_tested" bson:"season_tested"`
	ExperienceLevel  *string        `json:"experience_level" bson:"experience_level"`
	Variant          *string        `json:"variant" bson:"variant"`
	AuthorName       *string        `json:"author_name" bson:"author_name"`
	CreatedAt        *time.Time     `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// SetID implements the store identity hook used when decoding documents.
func (r *Review) SetID(id string) { r.ID = id }

// Normalize replaces absent collections with empty ones.
func (r *Review) Normalize() {
	r.Photos = nonNil(r.Photos)
	r.Videos = nonNil(r.Videos)
	if r.Ratings == nil {
		r.Ratings = map[string]int{}
	}
}
