package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/config"
	"menuthenu/internal/database"
	"menuthenu/internal/extract"
	"menuthenu/internal/router"
	"menuthenu/internal/storage"
	"menuthenu/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.AppEnv

	logger := config.NewLogger(cfg.Logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	db := client.Database(cfg.DBName)
	logger.Info().Str("database", db.Name()).Msg("mongo connected")

	if err := database.EnsureUserIndexes(db, logger); err != nil {
		logger.Warn().Err(err).Msg("user index warning")
	}
	if err := database.EnsureMenuIndexes(db, logger); err != nil {
		logger.Warn().Err(err).Msg("menu index warning")
	}

	files, uploadDir, err := newStorage(ctx, cfg.Upload, logger)
	if err != nil {
		return err
	}

	enricher := extract.NewEnricher(
		extract.NewPexelsClient(cfg.Enrich.ImageSearchURL, cfg.Enrich.ImageSearchKey, cfg.Enrich.Timeout),
		extract.NewSpoonacularClient(cfg.Enrich.RecipeURL, cfg.Enrich.RecipeKey, cfg.Enrich.Timeout),
		logger,
	)

	engine := router.New(router.Deps{
		Users:           store.NewUserStore(db),
		Menus:           store.NewMenuStore(db),
		Items:           store.NewItemStore(store.NewItemRegistry(db, logger)),
		Files:           files,
		Extractor:       extract.NewExtractor(extract.NewTextRecognizer(), enricher, logger),
		Food:            enricher,
		DB:              client,
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		BaseDomain:      cfg.BaseDomain,
		UploadDir:       uploadDir,
		SPADir:          cfg.SPADir,
		EnrichOnExtract: cfg.Enrich.OnExtract,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("address", server.Addr).Str("base_domain", cfg.BaseDomain).Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info().Msg("server shutdown completed")
	}
	return nil
}

// newStorage picks the upload backend. The returned directory is served
// under /uploads and is empty for S3.
func newStorage(ctx context.Context, cfg config.UploadConfig, logger zerolog.Logger) (storage.Storage, string, error) {
	if cfg.Backend == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, cfg.S3PublicURL, logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialise S3 storage: %w", err)
		}
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("using S3 upload storage")
		return s3Storage, "", nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create upload dir: %w", err)
	}
	logger.Info().Str("dir", cfg.Dir).Msg("using local upload storage")
	local := storage.NewLocalStorage(cfg.Dir, logger)
	return local, local.Root(), nil
}
