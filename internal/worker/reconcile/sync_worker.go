package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/worker"
)

// ConnectivityRunner - источник переходов online/offline (опрос удалённого хранилища)
type ConnectivityRunner interface {
	Run(ctx context.Context)
}

// SweepRunner - запускает проходы синхронизации на переходах в online
type SweepRunner interface {
	Run(ctx context.Context) error
}

// SyncWorker держит монитор сети и координатор синхронизации в одном жизненном цикле
type SyncWorker struct {
	*worker.BaseWorker
	monitor     ConnectivityRunner
	coordinator SweepRunner
}

func NewSyncWorker(monitor ConnectivityRunner, coordinator SweepRunner, logger *zap.Logger) *SyncWorker {
	return &SyncWorker{
		BaseWorker:  worker.NewBaseWorker("burn-sync", "", logger),
		monitor:     monitor,
		coordinator: coordinator,
	}
}

// Start блокируется до Stop или отмены ctx
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SyncWorker")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.monitor.Run(ctx)
	}()

	err := w.coordinator.Run(ctx)
	cancel()
	wg.Wait()

	logger.Info("SyncWorker stopped")
	return err
}
