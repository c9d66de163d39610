package main

// @title Prospect Discovery Service API
// @version 1.0.0
// @description Service for discovering businesses similar to a reference location. Geocodes a street address, searches Google Places for businesses matching the given terms within a radius, and returns a deduplicated result set with distances from the geocoded center.
// @description
// @description Capabilities:
// @description - Synchronous prospect search by address, terms and radius
// @description - Asynchronous search jobs over Redis Streams with polling
// @description - Geocode result caching

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/prospect-discovery/docs"
	"github.com/prospect-discovery/internal/config"
	httpDelivery "github.com/prospect-discovery/internal/delivery/http"
	"github.com/prospect-discovery/internal/delivery/http/handler"
	"github.com/prospect-discovery/internal/infrastructure/googleplaces"
	"github.com/prospect-discovery/internal/pkg/logger"
	"github.com/prospect-discovery/internal/repository/cache"
	redisRepo "github.com/prospect-discovery/internal/repository/redis"
	"github.com/prospect-discovery/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Prospect Discovery Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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
	log.Info("Redis connected")

	// 4. Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 5. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	placesRepo := googleplaces.NewPlacesClient(&cfg.Google, log)

	log.Info("Repositories initialized")

	// 6. Initialize use cases
	discoveryUC := usecase.NewDiscoveryUseCase(
		placesRepo,
		cacheRepo,
		streamRepo,
		log,
		cfg.Search.WorkerPoolSize,
		cfg.Cache.GeocodeCacheTTL,
		cfg.Cache.SearchResultCacheTTL,
	)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP handlers
	searchHandler := handler.NewSearchHandler(discoveryUC, &cfg.Search, log)

	log.Info("HTTP handlers initialized")

	// 8. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, searchHandler)

	log.Info("HTTP server initialized")

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
