// @title                       Cat Registry API
// @version                     1.0
// @description                 CRUD API for geotagged cats and their owners.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/api"
	"github.com/catregistry/cat-api/internal/api/handler"
	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/internal/core/service"
	"github.com/catregistry/cat-api/internal/infrastructure/config"
	"github.com/catregistry/cat-api/internal/infrastructure/db/mongo"
	"github.com/catregistry/cat-api/internal/infrastructure/db/redis"
	"github.com/catregistry/cat-api/internal/infrastructure/queue"
	"github.com/catregistry/cat-api/internal/infrastructure/storage"
	"github.com/catregistry/cat-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "cat-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Document store ---
	store, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "cat-api",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	checks := map[string]handler.Pinger{
		"mongodb": store.Ping,
	}

	// --- Optional cache ---
	var cache ports.Cache
	if cfg.Redis.Addr != "" {
		rc, err := redis.Dial(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CacheTTL,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		cache = rc
		checks["redis"] = rc.Ping
	} else {
		log.Info().Msg("REDIS_ADDR not set, running without cache")
	}

	// --- Image store ---
	backend, uploadDir, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	images := queue.NewDispatcher(0, backend, logger.With("images"))
	images.Start(workerCtx)
	defer func() {
		stopWorkers()
		images.Wait()
	}()

	// --- Services ---
	users := store.Users()
	cats := store.Cats()

	e := api.NewRouter(api.Dependencies{
		Cats:           service.NewCatService(cats, images, cache, logger.With("cats")),
		Users:          service.NewUserService(users, cache, logger.With("users")),
		Auth:           service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		Images:         images,
		Health:         handler.NewHealthHandler(checks),
		JWTSecret:      cfg.JWTSecret,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		UploadDir:      uploadDir,
		Logger:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// newImageStore returns the configured backend and, for the local backend,
// the directory to serve under /uploads.
func newImageStore(ctx context.Context, cfg *config.Config) (ports.ImageStore, string, error) {
	if cfg.Upload.Backend == config.BackendS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		return store, "", err
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
