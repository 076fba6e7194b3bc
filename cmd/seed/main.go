// Command seed populates the configured store with a generated outdoor gear
// catalog, reviews and the impact record.
//
// Run: STORE_DRIVER=mongo DATABASE_URL=mongodb://localhost:27017 DATABASE_NAME=ecotrail go run ./cmd/seed -products 500
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/utafrali/EcoTrail/internal/app"
	"github.com/utafrali/EcoTrail/internal/config"
	"github.com/utafrali/EcoTrail/internal/seed"
	"github.com/utafrali/EcoTrail/pkg/logger"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Products, "products", opts.Products, "number of products to generate")
	flag.IntVar(&opts.ReviewsPerProduct, "reviews", opts.ReviewsPerProduct, "reviews per product")
	flag.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	flag.BoolVar(&opts.Force, "force", false, "seed products even if the catalog is not empty")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(opts seed.Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(config.ServiceName+"-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	_, err = seed.New(st, log).Run(ctx, opts)
	return err
}
