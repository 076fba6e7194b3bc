// Command server runs the EcoTrail Gear catalog API.
//
// Without DATABASE_URL the API still starts and serves the demo catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/EcoTrail/internal/app"
	"github.com/utafrali/EcoTrail/internal/config"
	"github.com/utafrali/EcoTrail/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(config.ServiceName, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("ecotrail api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("ecotrail api stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting ecotrail api",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("store_driver", cfg.StoreDriver),
		slog.Bool("store_configured", cfg.StoreConfigured()),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}
