package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/config"
	"github.com/burn-ops-service/internal/infrastructure/auth"
	"github.com/burn-ops-service/internal/infrastructure/connectivity"
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

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "burn-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Burn Sync Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("local_store", cfg.LocalStore.Path),
		zap.Duration("probe_interval", cfg.Connectivity.ProbeInterval),
	)

	m := metrics.New("burn_ops_worker", prometheus.DefaultRegisterer)

	// 3. Local store (тот же файл, что и у API; WAL допускает два процесса)
	localDB, err := sqlite.Open(cfg.LocalStore.Path, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			log.Error("Failed to close local store", zap.Error(err))
		}
	}()

	// 4. Remote store
	remoteDB, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to configure remote store", zap.Error(err))
	}
	defer func() {
		if err := remoteDB.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 5. Connect to Redis - воркер получает события связи через стрим
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 6. Initialize repositories
	localOps := sqlite.NewOperationRepository(localDB, log)
	sessionRepo := sqlite.NewSessionRepository(localDB, log)
	remoteOps := postgres.NewOperationRepository(remoteDB, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log,
		redisRepo.WithReadBlock(cfg.Worker.StreamReadTimeout))

	gate := auth.NewGate(sessionRepo, auth.NewJWTVerifier(cfg.Auth.JWTSecret), log)
	monitor := connectivity.NewMonitor(remoteDB, cfg.Connectivity.ProbeInterval, cfg.Connectivity.ProbeTimeout, m, log)

	// 7. Initialize use cases
	coordinator := usecase.NewSyncCoordinator(localOps, remoteOps, gate, monitor, streamRepo, m, log)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(reconcile.NewSyncWorker(monitor, coordinator, log))
	workerManager.Register(reconcile.NewConnectivityWorker(streamRepo, monitor, cfg.Worker.ConsumerGroup, log))

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Failures():
		log.Error("Worker failed, shutting down", zap.Error(err))
	}

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
