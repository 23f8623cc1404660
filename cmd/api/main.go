package main

// @title Burn Ops Service API
// @version 1.0.0
// @description Сервис полевого учёта предписанных выжиганий. Работает без сети:
// @description операции сохраняются локально и досылаются в центральное хранилище при появлении связи.
// @description
// @description Основные возможности:
// @description - Черновик операции: форма, контур участка, команда, анализ
// @description - Площадь и периметр участка по геодезическим формулам
// @description - Сохранение с автоматическим откатом в локальное хранилище
// @description - Синхронизация локального бэклога
// @description - Погода, геокодирование, тактический анализ CPS, протокол LACES

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/burn-ops-service/docs/swagger"
	"github.com/burn-ops-service/internal/config"
	httpDelivery "github.com/burn-ops-service/internal/delivery/http"
	"github.com/burn-ops-service/internal/delivery/http/handler"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/infrastructure/auth"
	"github.com/burn-ops-service/internal/infrastructure/connectivity"
	"github.com/burn-ops-service/internal/infrastructure/groq"
	"github.com/burn-ops-service/internal/infrastructure/nominatim"
	"github.com/burn-ops-service/internal/infrastructure/openmeteo"
	"github.com/burn-ops-service/internal/pkg/logger"
	"github.com/burn-ops-service/internal/pkg/metrics"
	"github.com/burn-ops-service/internal/repository/cache"
	"github.com/burn-ops-service/internal/repository/postgres"
	redisRepo "github.com/burn-ops-service/internal/repository/redis"
	"github.com/burn-ops-service/internal/repository/sqlite"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/worker"
	"github.com/burn-ops-service/internal/worker/reconcile"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "burn-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Burn Ops Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("local_store", cfg.LocalStore.Path),
		zap.Bool("external_worker", cfg.Worker.Enabled),
	)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("burn_ops", registry)

	// 4. Local store - без него узел не работает
	localDB, err := sqlite.Open(cfg.LocalStore.Path, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			log.Error("Failed to close local store", zap.Error(err))
		}
	}()

	// 5. Remote store - недоступность при старте не фатальна
	remoteDB, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to configure remote store", zap.Error(err))
	}
	defer func() {
		if err := remoteDB.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 6. Redis необязателен: без него нет кеша справочников и пересылки событий воркеру
	var (
		cacheRepo repository.CacheRepository
		publisher usecase.EventPublisher
	)
	healthChecks := map[string]httpDelivery.HealthChecker{"remote_store": remoteDB}

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, running without cache and event stream", zap.Error(err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		publisher = redisRepo.NewStreamRepository(redisClient.Client(), log)
		healthChecks["redis"] = redisClient
	}

	// 7. Initialize Repositories
	localOps := sqlite.NewOperationRepository(localDB, log)
	personnelRepo := sqlite.NewPersonnelRepository(localDB, log)
	sessionRepo := sqlite.NewSessionRepository(localDB, log)
	remoteOps := postgres.NewOperationRepository(remoteDB, log)

	gate := auth.NewGate(sessionRepo, auth.NewJWTVerifier(cfg.Auth.JWTSecret), log)
	monitor := connectivity.NewMonitor(remoteDB, cfg.Connectivity.ProbeInterval, cfg.Connectivity.ProbeTimeout, m, log)

	log.Info("Repositories initialized")

	// 8. Initialize Use Cases
	coordinator := usecase.NewSyncCoordinator(localOps, remoteOps, gate, monitor, publisher, m, log)
	personnelUC := usecase.NewPersonnelUseCase(personnelRepo, log)
	operationUC := usecase.NewOperationUseCase(coordinator, localOps, remoteOps, gate, monitor, personnelUC, log)
	reportUC := usecase.NewReportUseCase(operationUC, gate, log)
	analysisUC := usecase.NewAnalysisUseCase(groq.NewClient(&cfg.Groq, log), log)
	draftUC := usecase.NewDraftUseCase(coordinator, personnelUC, analysisUC, log)
	lookupUC := usecase.NewLookupUseCase(
		openmeteo.NewClient(&cfg.Weather, log),
		nominatim.NewClient(&cfg.Geocoding, log),
		cacheRepo,
		cfg.Cache.WeatherCacheTTL,
		cfg.Cache.GeocodeCacheTTL,
		log,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Geometry:  handler.NewGeometryHandler(),
		Draft:     handler.NewDraftHandler(draftUC, log),
		Operation: handler.NewOperationHandler(operationUC, reportUC, log),
		Personnel: handler.NewPersonnelHandler(personnelUC, log),
		Sync:      handler.NewSyncHandler(coordinator, monitor, publisher, log),
		Session:   handler.NewSessionHandler(gate, log),
		Lookup:    handler.NewLookupHandler(lookupUC, log),
		Analysis:  handler.NewAnalysisHandler(analysisUC, log),
	}

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, m, registry, localDB, healthChecks, handlers)

	// 11. Connectivity and reconciliation.
	// С отдельным воркером API только следит за связью; иначе досылает бэклог сам.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerManager := worker.NewWorkerManager(log)
	if cfg.Worker.Enabled {
		go monitor.Run(ctx)
	} else {
		workerManager.Register(reconcile.NewSyncWorker(monitor, coordinator, log))
		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start sync worker", zap.Error(err))
		}
	}

	// 12. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancel()
	if !cfg.Worker.Enabled {
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping sync worker", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
