package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/faizan/catalog/config"
	"github.com/faizan/catalog/handlers"
	"github.com/faizan/catalog/provision"
	"github.com/faizan/catalog/repository"
	"github.com/faizan/catalog/service"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// a .env next to the binary is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Fatalf("Failed to read .env: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CATALOG_CONFIG"))
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	gateway, ping, err := openGateway(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	if len(cfg.Provision.Artists) > 0 || len(cfg.Provision.Genres) > 0 {
		if err := provisionCatalog(cfg, gateway, log); err != nil {
			log.Fatalf("Failed to provision catalog: %v", err)
		}
	}

	loc, err := cfg.Featured.Location()
	if err != nil {
		log.Fatalf("Failed to resolve featured timezone: %v", err)
	}

	router := handlers.SetupRouter(handlers.RouterOptions{
		Catalog:       service.NewCatalog(gateway, cfg.Server.RequestTimeout, log),
		Featured:      service.NewFeaturedSelector(gateway, cfg.Server.RequestTimeout, loc, log),
		Logger:        log,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		Ping:          ping,
		RateLimit:     cfg.Server.RateLimit,
		RateBurst:     cfg.Server.RateBurst,
	})

	log.WithField("addr", cfg.Server.Addr).Info("catalog listening")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openGateway(cfg *config.Config, log *logrus.Logger) (repository.Gateway, func(context.Context) error, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory storage; data is lost on exit")
		return repository.NewMemoryRepository(), nil, nil
	}

	db, err := config.OpenDatabase(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormRepository(db), sqlDB.PingContext, nil
}

func provisionCatalog(cfg *config.Config, gateway repository.Gateway, log *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var source provision.ArtistSource = provision.StaticSource{}
	if cfg.Provision.SpotifyClientID != "" && cfg.Provision.SpotifyClientSecret != "" {
		spotifySource, err := provision.NewSpotifySource(ctx, cfg.Provision.SpotifyClientID, cfg.Provision.SpotifyClientSecret)
		if err != nil {
			return err
		}
		source = spotifySource
	}

	_, err := provision.NewSeeder(gateway, source, log).Seed(ctx, cfg.Provision.Artists, cfg.Provision.Genres)
	return err
}
