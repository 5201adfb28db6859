package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/places-service/internal/config"
	"github.com/places-service/internal/pkg/logger"
	"github.com/places-service/internal/repository/cache"
	"github.com/places-service/internal/repository/nostr"
	"github.com/places-service/internal/repository/postgres"
	redisRepo "github.com/places-service/internal/repository/redis"
	"github.com/places-service/internal/usecase"
	"github.com/places-service/internal/worker"
	"github.com/places-service/internal/worker/place"
	"github.com/places-service/internal/worker/relaysync"
	"go.uber.org/zap"
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
	log, err := logger.New(cfg.Log.Level, "places-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Places Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("sync_lookback", cfg.Worker.SyncLookback),
		zap.Strings("relays", cfg.Nostr.Relays))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	placeRepo := postgres.NewPlaceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	relayRepo, err := nostr.NewRelayRepository(&cfg.Nostr, nostr.DialWebsocket, log)
	if err != nil {
		log.Fatal("Failed to initialize relay repository", zap.Error(err))
	}

	// 6. Initialize use cases
	ingestUC := usecase.NewIngestUseCase(placeRepo, cacheRepo, log)

	// 7. Initialize workers
	syncWorker := relaysync.NewRelaySyncWorker(
		relayRepo,
		streamRepo,
		cfg.Worker.SyncLookback,
		log,
	)

	ingestWorker := place.NewPlaceIngestWorker(
		streamRepo,
		ingestUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(syncWorker)
	workerManager.Register(ingestWorker)

	// 9. Setup graceful shutdown
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

	// Stop сначала: воркеры дочитывают текущий batch и выходят без ошибки
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	for _, err := range workerManager.Errors() {
		log.Error("Worker exited with error", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
