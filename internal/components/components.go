package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"villagevoice/internal/api"
	"villagevoice/internal/api/handlers/http/system"
	"villagevoice/internal/config"
	"villagevoice/internal/geocode"
	"villagevoice/internal/objectstore"
	"villagevoice/internal/service"
	"villagevoice/internal/storage/local"
	"villagevoice/internal/storage/postgres"
	"villagevoice/internal/storage/redis"
	"villagevoice/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	// Postgres and Redis are nil in local mode.
	Postgres *postgres.Postgres
	Redis    *redis.Redis
	Local    *local.Store
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}
	health := map[string]system.Pinger{}

	photos, photoDir, err := initPhotos(ctx, cfg, logger, health)
	if err != nil {
		return nil, err
	}

	var (
		store      service.ComplaintStore
		gate       service.RoleGate
		selections service.SelectionStore
		cache      service.ComplaintCache
		geocoder   service.Geocoder
		authSvc    service.AuthService
	)
	nominatim := geocode.NewNominatim(cfg.Geocoder, logger)

	if cfg.LocalStore() {
		logger.Info("Opening local complaint store", slog.String("path", cfg.Store.LocalPath))
		ls, err := local.Open(cfg.Store.LocalPath, cfg.Store.Seed, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		c.Local = ls

		store = ls
		gate = service.OpenGate{}
		selections = local.NewSelections()
		geocoder = nominatim
	} else {
		logger.Info("Initializing Postgres")
		pg, err := postgres.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		c.Postgres = pg
		health["postgres"] = pg

		logger.Info("Initializing Redis")
		rdb, err := redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		c.Redis = rdb
		health["redis"] = rdb

		store = pg.ComplaintStore()
		gate = service.NewProfileGate(pg.Profiles(), logger)
		selections = redis.NewSelectionStore(rdb)
		cache = redis.NewComplaintCache(rdb)
		geocoder = geocode.NewCached(nominatim, redis.NewAddressCache(rdb), cfg.Geocoder.CacheTTL, logger)
		authSvc = service.NewAuthService(pg.Users(), pg.Profiles(), redis.NewSessionStore(rdb), logger, service.AuthOptions{
			Secret:      cfg.Auth.JWTSecret,
			AccessTTL:   cfg.Auth.AccessTTL,
			SessionTTL:  cfg.Auth.SessionTTL,
			AdminEmails: cfg.Auth.AdminEmails,
		})
	}

	complaints := service.NewComplaintService(store, gate, photos, selections, cache, logger, service.ComplaintOptions{
		RequireCoordinates: !cfg.LocalStore(),
		TrackCacheTTL:      cfg.Cache.TrackTTL,
	})
	locations := service.NewLocationService(geocoder, selections, cfg.Cache.SelectionTTL, logger)

	svc := service.NewService(complaints, locations, authSvc)

	c.HttpServer = api.NewServer(cfg, logger, svc, api.ServerOptions{
		PhotoDir: photoDir,
		Health:   health,
	})
	logger.Info("Initialized server", slog.String("store", cfg.Store.Driver), slog.Bool("auth", authSvc != nil))

	return c, nil
}

func initPhotos(ctx context.Context, cfg *config.Config, logger *slog.Logger, health map[string]system.Pinger) (service.PhotoStore, string, error) {
	if cfg.Photos.Driver == config.PhotosDriverS3 {
		logger.Info("Initializing S3 photo store", slog.String("endpoint", cfg.Photos.Endpoint), slog.String("bucket", cfg.Photos.Bucket))
		s3, err := objectstore.NewS3(ctx, cfg.Photos, logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to init photo store: %w", err)
		}
		health["photos"] = s3
		return s3, "", nil
	}

	disk, err := objectstore.NewDisk(cfg.Photos.Dir, cfg.Photos.PublicBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to init photo dir: %w", err)
	}
	return disk, disk.Dir(), nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
