package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/config"
	"github.com/prospect-discovery/internal/infrastructure/googleplaces"
	"github.com/prospect-discovery/internal/pkg/logger"
	"github.com/prospect-discovery/internal/repository/cache"
	redisRepo "github.com/prospect-discovery/internal/repository/redis"
	"github.com/prospect-discovery/internal/usecase"
	"github.com/prospect-discovery/internal/worker"
	"github.com/prospect-discovery/internal/worker/discovery"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Prospect Discovery Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_batch_size", cfg.Worker.MaxBatchSize))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	placesRepo := googleplaces.NewPlacesClient(&cfg.Google, log)

	// 5. Initialize use cases
	discoveryUC := usecase.NewDiscoveryUseCase(
		placesRepo,
		cacheRepo,
		streamRepo,
		log,
		cfg.Search.WorkerPoolSize,
		cfg.Cache.GeocodeCacheTTL,
		cfg.Cache.SearchResultCacheTTL,
	)

	// 6. Initialize workers
	discoveryWorker := discovery.NewDiscoveryWorker(
		streamRepo,
		discoveryUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxBatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(discoveryWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
