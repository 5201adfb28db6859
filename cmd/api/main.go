package main

// @title Places Service API
// @version 1.0.0
// @description Сервис мест поверх Nostr (kind 37515). Индексирует места с релеев,
// @description отдаёт их списком и поиском в радиусе, готовит черновики для правки
// @description и публикует места ключом сервиса.
// @description
// @description Основные возможности:
// @description - Список мест с фильтрами по geohash, авторам и типам
// @description - Поиск мест в радиусе с фильтром "открыто сейчас"
// @description - Черновик для редактирования места по naddr
// @description - Неподписанный payload для подписи на клиенте
// @description - Публикация места на релеи

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

	_ "github.com/places-service/docs"
	"github.com/places-service/internal/config"
	httpDelivery "github.com/places-service/internal/delivery/http"
	"github.com/places-service/internal/delivery/http/handler"
	"github.com/places-service/internal/pkg/logger"
	"github.com/places-service/internal/repository/cache"
	"github.com/places-service/internal/repository/nostr"
	"github.com/places-service/internal/repository/postgres"
	redisRepo "github.com/places-service/internal/repository/redis"
	"github.com/places-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "places-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Places Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Strings("relays", cfg.Nostr.Relays),
	)

	// 3. Connect to PostgreSQL (place index)
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

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
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	placeRepo := postgres.NewPlaceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	relayRepo, err := nostr.NewRelayRepository(&cfg.Nostr, nostr.DialWebsocket, log)
	if err != nil {
		log.Fatal("Failed to initialize relay repository", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	placeUC := usecase.NewPlaceUseCase(
		relayRepo,
		relayRepo,
		placeRepo,
		cacheRepo,
		streamRepo,
		usecase.PlaceUseCaseConfig{
			PlaceCacheTTL:    cfg.Cache.PlaceCacheTTL,
			ProfileCacheTTL:  cfg.Cache.ProfileCacheTTL,
			GeohashPrecision: cfg.Nostr.GeohashPrecision,
			RelayHints:       cfg.Nostr.RelayHints,
		},
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	placeHandler := handler.NewPlaceHandler(placeUC, log)
	healthHandler := handler.NewHealthHandler(db, redisClient, placeRepo, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, placeHandler, healthHandler)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
		zap.String("service_pubkey", relayRepo.PublicKey()),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
