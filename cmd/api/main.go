package main

// @title Trip Editor API
// @version 1.0.0
// @description Редактор маршрутов поездки: дни и точки маршрута, поиск мест и маркеры на карте.
// @description Карта поездки по Китаю строится на AMap (Gaode), международной поездки - на Google Maps.

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

	_ "github.com/trip-editor/docs"
	"github.com/trip-editor/internal/config"
	httpDelivery "github.com/trip-editor/internal/delivery/http"
	"github.com/trip-editor/internal/delivery/http/handler"
	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/infrastructure/amap"
	"github.com/trip-editor/internal/infrastructure/enrichment"
	"github.com/trip-editor/internal/infrastructure/googlemaps"
	"github.com/trip-editor/internal/infrastructure/maploader"
	"github.com/trip-editor/internal/pkg/logger"
	"github.com/trip-editor/internal/repository/cache"
	"github.com/trip-editor/internal/repository/postgres"
	"github.com/trip-editor/internal/usecase"
	"github.com/trip-editor/internal/worker"
	"github.com/trip-editor/internal/worker/session"
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

	log.Info("Starting Trip Editor")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL (trip documents)
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancelMigrate()
		if err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// 4. Connect to Redis (search cache)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// 5. Map provider adapters share one SDK loader cache per process
	loadTimeout := cfg.Maps.RequestTimeout + time.Duration(cfg.Maps.LoadAttempts)*cfg.Maps.LoadInterval
	loader := maploader.NewCache(loadTimeout, logger.Named(log, "maploader"))

	amapClient := amap.NewAmapClient(&cfg.Amap, &cfg.Maps, loader, log)
	googleClient := googlemaps.NewGoogleMapsClient(&cfg.GoogleMaps, &cfg.Maps, loader, log)
	enrichmentClient := enrichment.NewEnrichmentClient(&cfg.Enrichment, log)

	// 6. Initialize Repositories
	tripRepo := postgres.NewTripRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	searchUC := usecase.NewSearchUseCase(
		cacheRepo,
		log,
		cfg.Cache.SearchCacheTTL,
		cfg.Amap.City,
	)

	bindings := map[domain.ProviderName]usecase.ProviderBinding{
		domain.ProviderGaode: {
			Provider:      amapClient,
			APIKey:        cfg.Amap.APIKey,
			SecurityToken: cfg.Amap.SecurityCode,
		},
		domain.ProviderGoogle: {
			Provider: googleClient,
			APIKey:   cfg.GoogleMaps.APIKey,
		},
	}

	editorUC := usecase.NewEditorUseCase(
		bindings,
		searchUC,
		tripRepo,
		enrichmentClient,
		cfg.Editor.DetailZoom,
		log,
	)
	tripUC := usecase.NewTripUseCase(tripRepo, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	editorHandler := handler.NewEditorHandler(editorUC, log)
	tripHandler := handler.NewTripHandler(tripUC, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	}, editorUC, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		editorHandler,
		tripHandler,
		healthHandler,
	)

	// 10. Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(session.NewSweeperWorker(
		editorUC,
		cfg.Editor.SessionTTL,
		cfg.Editor.SweepInterval,
		log,
	))
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := workerManager.Stop(ctx); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}

	// Open editors release their maps before the process exits
	editorUC.CloseAll()

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
