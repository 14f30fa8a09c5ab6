package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ainaphakhruddin/airchives/internal/adapter/repo"
	"github.com/ainaphakhruddin/airchives/internal/infra"
	"github.com/ainaphakhruddin/airchives/internal/pipeline"
	"github.com/ainaphakhruddin/airchives/internal/providers/synthesis"
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
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("worker: schema bootstrap failed")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: redis connection failed")
	}
	defer redisClient.Close()

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	provider, err := synthesis.Resolve(cfg, &logger)
	if err != nil {
		// Queued generations are still drained: each one fails fast with a
		// configuration error instead of sitting in pending forever.
		logger.Warn().Err(err).Msg("worker: no synthesis provider configured")
	}

	service := pipeline.NewService(pipeline.Options{
		Garments:       repo.NewGarmentRepository(pool),
		Generations:    repo.NewGenerationRepository(pool),
		Outputs:        repo.NewOutputImageRepository(pool),
		Models:         repo.NewVirtualModelRepository(pool),
		Provider:       provider,
		Store:          fileStore,
		Queue:          queue.NewRedisQueue(redisClient, queue.DefaultKey),
		StorageBaseURL: cfg.StorageBaseURL,
		Logger:         logger,
	})

	worker := pipeline.NewWorker(service, queue.NewRedisQueue(redisClient, queue.DefaultKey), logger)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
