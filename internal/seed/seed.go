// Package seed populates a store with a generated outdoor gear catalog,
// customer reviews and the impact record. Generation is deterministic for a
// given seed so repeated runs produce the same catalog.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/event"
	"github.com/utafrali/EcoTrail/internal/service"
	"github.com/utafrali/EcoTrail/internal/store"
	"github.com/utafrali/EcoTrail/pkg/slug"
)

// imageBaseURL hosts generated product images.
const imageBaseURL = "https://cdn.ecotrail.example/products/"

// Options controls the size and shape of the generated data.
type Options struct {
	Products          int
	ReviewsPerProduct int
	Seed              uint64
	// Force seeds products even when the product collection is not empty.
	Force bool
}

// DefaultOptions returns a small storefront-sized catalog.
func DefaultOptions() Options {
	return Options{Products: 200, ReviewsPerProduct: 3, Seed: 42}
}

// Result summarizes a seeding run.
type Result struct {
	Products int
	Reviews  int
	Impact   bool
}

// Seeder writes generated records through the catalog services.
type Seeder struct {
	store    store.Store
	products *service.ProductService
	reviews  *service.ReviewService
	logger   *slog.Logger
}

// New creates a seeder over st. Domain events are not published.
func New(st store.Store, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:    st,
		products: service.NewProductService(st, event.Noop{}, logger),
		reviews:  service.NewReviewService(st, event.Noop{}, logger),
		logger:   logger,
	}
}

// Run seeds the store. Products and their reviews are skipped when the
// catalog already has products unless opts.Force is set. The impact record
// is written only when none exists.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	existing, err := s.store.Count(ctx, store.CollectionProduct, nil)
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}

	if existing == 0 || opts.Force {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		for i, p := range GenerateProducts(rng, opts.Products) {
			id, err := s.products.CreateProduct(ctx, &p)
			if err != nil {
				return res, fmt.Errorf("create product %d: %w", i, err)
			}
			res.Products++

			for _, r := range GenerateReviews(rng, id, opts.ReviewsPerProduct) {
				if _, err := s.reviews.CreateReview(ctx, &r); err != nil {
					return res, fmt.Errorf("create review for %s: %w", id, err)
				}
				res.Reviews++
			}
		}
	} else {
		s.logger.InfoContext(ctx, "catalog already seeded, skipping products",
			slog.Int64("existing", existing),
		)
	}

	impacts, err := s.store.Count(ctx, store.CollectionImpact, nil)
	if err != nil {
		return res, fmt.Errorf("count impact: %w", err)
	}
	if impacts == 0 {
		if _, err := s.store.Insert(ctx, store.CollectionImpact, catalog.FallbackImpact); err != nil {
			return res, fmt.Errorf("insert impact: %w", err)
		}
		res.Impact = true
	}

	s.logger.InfoContext(ctx, "seed complete",
		slog.Int("products", res.Products),
		slog.Int("reviews", res.Reviews),
		slog.Bool("impact", res.Impact),
	)
	return res, nil
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

type categoryDef struct {
	Name          string
	Subcategories []string
	Types         []string
	MinPrice      float64
	MaxPrice      float64
}

var categories = []categoryDef{
	{"Tents", []string{"Backpacking", "Family"}, []string{"Tent", "Shelter", "Bivy"}, 120, 900},
	{"Apparel", []string{"Jackets", "Base Layers", "Fleece"}, []string{"Rain Jacket", "Fleece", "Base Layer", "Down Jacket"}, 40, 450},
	{"Footwear", []string{"Hiking Boots", "Trail Runners"}, []string{"Hiking Boot", "Trail Runner", "Approach Shoe"}, 80, 260},
	{"Packs", []string{"Daypacks", "Multiday"}, []string{"Daypack", "Backpack", "Hydration Pack"}, 50, 380},
	{"Sleeping", []string{"Bags", "Pads"}, []string{"Sleeping Bag", "Sleeping Pad", "Quilt"}, 60, 520},
	{"Cooking", []string{"Stoves", "Cookware"}, []string{"Stove", "Cook Set", "Mug"}, 15, 180},
}

var (
	brands      = []string{"Ridgeline", "Northfork", "Alpenglow", "Cedar & Stone", "Tidewater", "Summit Lab"}
	prefixes    = []string{"Ultralight", "Alpine", "Trailhead", "Basecamp", "Ridge", "Storm", "Canyon", "Evergreen"}
	activities  = []string{"hiking", "camping", "backpacking", "climbing", "trail running", "mountaineering"}
	seasons     = []string{"spring", "summer", "fall", "winter"}
	sustainable = []string{"recycled", "organic", "fair trade", "bluesign", "PFC-free", "repairable"}
	specials    = []string{"waterproof", "packable", "lifetime warranty", "reflective", "vegan"}
	ecoBadges   = []string{"Climate Neutral", "1% for the Planet", "B Corp"}
	variants    = []string{"Small", "Medium", "Large", "Regular", "Long"}
	levels      = []string{"beginner", "intermediate", "expert"}
	authors     = []string{"Maya R.", "Jonas K.", "Priya S.", "Tom W.", "Lena H.", "Chris P."}

	ratingDimensions = []string{
		domain.RatingDurability,
		domain.RatingComfort,
		domain.RatingWeatherResistance,
		domain.RatingValue,
		domain.RatingSustainability,
		domain.RatingPerformance,
	}
)

// GenerateProducts builds n products drawn from rng.
func GenerateProducts(rng *rand.Rand, n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		cat := categories[i%len(categories)]
		productType := pick(rng, cat.Types)
		title := fmt.Sprintf("%s %s", pick(rng, prefixes), productType)
		description := fmt.Sprintf("A %s built for long days outside. %s",
			productType, pick(rng, []string{"Tested on multi-week trips.", "Packs down small.", "Made to be repaired, not replaced."}))
		brand := pick(rng, brands)

		price := roundCents(cat.MinPrice + rng.Float64()*(cat.MaxPrice-cat.MinPrice))
		p := domain.Product{
			Title:                  title,
			Description:            &description,
			Brand:                  &brand,
			Category:               cat.Name,
			Subcategories:          []string{pick(rng, cat.Subcategories)},
			ActivityTypes:          sample(rng, activities, 1+rng.IntN(3)),
			Seasons:                sample(rng, seasons, 1+rng.IntN(len(seasons))),
			SustainabilityFeatures: sample(rng, sustainable, rng.IntN(3)),
			SpecialFeatures:        sample(rng, specials, rng.IntN(3)),
			Images:                 []string{fmt.Sprintf("%s%s-%d.jpg", imageBaseURL, slug.Generate(title), i)},
			Price:                  price,
			Currency:               domain.DefaultCurrency,
			Rating:                 math.Round((3+rng.Float64()*2)*10) / 10,
			ReviewCount:            rng.IntN(500),
			InStock:                rng.IntN(10) > 0,
			Availability:           domain.AvailabilityInStock,
			Specs:                  map[string]string{"weight": fmt.Sprintf("%d g", 100+rng.IntN(2400))},
		}
		if !p.InStock {
			p.Availability = domain.AvailabilityBackorder
		}
		if rng.IntN(4) == 0 {
			sale := roundCents(price * 0.8)
			p.SalePrice = &sale
		}
		if len(p.SustainabilityFeatures) > 1 {
			badge := pick(rng, ecoBadges)
			p.EcoBadge = &badge
		}
		products = append(products, p)
	}
	return products
}

// GenerateReviews builds n reviews of productID drawn from rng.
func GenerateReviews(rng *rand.Rand, productID string, n int) []domain.Review {
	reviews := make([]domain.Review, 0, n)
	for i := 0; i < n; i++ {
		ratings := make(map[string]int, len(ratingDimensions))
		for _, dim := range ratingDimensions {
			ratings[dim] = 1 + rng.IntN(5)
		}
		days := 1 + rng.IntN(365)
		activity := pick(rng, activities)
		season := pick(rng, seasons)
		level := pick(rng, levels)
		variant := pick(rng, variants)
		author := pick(rng, authors)

		reviews = append(reviews, domain.Review{
			ProductID:        productID,
			Title:            pick(rng, []string{"Worth every gram", "Solid but heavy", "Held up in a storm", "Great value"}),
			Body:             fmt.Sprintf("Used it for %d days of %s in %s.", days, activity, season),
			VerifiedPurchase: rng.IntN(3) > 0,
			DaysTested:       &days,
			Ratings:          ratings,
			ActivityUsed:     &activity,
			SeasonTested:     &season,
			ExperienceLevel:  &level,
			Variant:          &variant,
			AuthorName:       &author,
		})
	}
	return reviews
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// sample returns k distinct values in vocabulary order.
func sample(rng *rand.Rand, values []string, k int) []string {
	idx := rng.Perm(len(values))[:min(k, len(values))]
	slices.Sort(idx)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, values[i])
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
