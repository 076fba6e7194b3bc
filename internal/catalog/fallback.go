package catalog

import (
	"github.com/utafrali/EcoTrail/internal/domain"
)

// FallbackImpact is reported when no impact record can be read.
var FallbackImpact = domain.ImpactStats{
	TreesPlanted:    128450,
	BottlesRecycled: 9723450,
	CarbonOffsetKg:  654321.5,
}

// FallbackProducts returns the demo catalog served while no store is
// connected. Each call returns fresh values that callers may modify.
func FallbackProducts() []domain.Product {
	return []domain.Product{
		demoProduct("demo-1", "Evergreen Ultralight Tent", "Carbon-Neutral Camping Equipment",
			349.0, ptr(299.0), 4.7, 126, "Carbon Neutral",
			[]string{"carbon-neutral", "recycled"},
			"https://images.unsplash.com/photo-1501706362039-c06b2d715385?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1504711434969-e33886168f5c?q=80&w=1200&auto=format&fit=crop",
		),
		demoProduct("demo-2", "TrailWave Recycled Fleece", "Recycled Material Hiking Gear",
			129.0, nil, 4.5, 342, "Recycled Materials",
			[]string{"recycled"},
			"https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1500534314209-a25ddb2bd429?q=80&w=1200&auto=format&fit=crop",
		),
		demoProduct("demo-3", "SunSpark Solar Charger", "Renewable Energy Outdoor Accessories",
			99.0, ptr(89.0), 4.2, 88, "Renewable Energy",
			[]string{"renewable"},
			"https://images.unsplash.com/photo-1500534315581-c1f6f8a91b9b?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1469474968028-56623f02e42e?q=80&w=1200&auto=format&fit=crop",
		),
	}
}

func demoProduct(id, title, category string, price float64, salePrice *float64, rating float64,
	reviews int, badge string, features []string, images ...string) domain.Product {
	p := domain.Product{
		ID:                     id,
		Title:                  title,
		Category:               category,
		SustainabilityFeatures: features,
		Images:                 images,
		Price:                  price,
		SalePrice:              salePrice,
		Currency:               domain.DefaultCurrency,
		Rating:                 rating,
		ReviewCount:            reviews,
		InStock:                true,
		Availability:           domain.AvailabilityInStock,
		EcoBadge:               ptr(badge),
	}
	p.Normalize()
	return p
}

func ptr[T any](v T) *T { return &v }
