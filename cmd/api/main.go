package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ainaphakhruddin/airchives/internal/adapter/repo"
	httpapi "github.com/ainaphakhruddin/airchives/internal/http"
	"github.com/ainaphakhruddin/airchives/internal/http/handlers"
	"github.com/ainaphakhruddin/airchives/internal/infra"
	"github.com/ainaphakhruddin/airchives/internal/pipeline"
	"github.com/ainaphakhruddin/airchives/internal/providers/synthesis"
	"github.com/ainaphakhruddin/airchives/internal/providers/vision"
	"github.com/ainaphakhruddin/airchives/internal/queue"
	"github.com/ainaphakhruddin/airchives/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("api: schema bootstrap failed")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: redis connection failed")
	}
	defer redisClient.Close()

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	// The active synthesis provider is resolved once, at startup. Requests
	// are rejected with a configuration error when neither credential exists.
	provider, err := synthesis.Resolve(cfg, &logger)
	if err != nil {
		logger.Warn().Err(err).Msg("api: generation requests will be rejected")
	}

	visionClient := vision.NewClient(vision.Options{
		APIKey:         cfg.FalAPIKey,
		BaseURL:        cfg.FalBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.VisionTimeout,
	})

	garments := repo.NewGarmentRepository(pool)
	generations := repo.NewGenerationRepository(pool)
	outputs := repo.NewOutputImageRepository(pool)
	models := repo.NewVirtualModelRepository(pool)

	service := pipeline.NewService(pipeline.Options{
		Garments:       garments,
		Generations:    generations,
		Outputs:        outputs,
		Models:         models,
		Provider:       provider,
		Store:          fileStore,
		Queue:          queue.NewRedisQueue(redisClient, queue.DefaultKey),
		StorageBaseURL: cfg.StorageBaseURL,
		Logger:         logger,
	})

	app := &handlers.App{
		Garments:    garments,
		Generations: generations,
		Outputs:     outputs,
		Models:      models,
		Vision:      visionClient,
		Pipeline:    service,
		Store:       fileStore,
		Config:      cfg,
		Logger:      logger,
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
