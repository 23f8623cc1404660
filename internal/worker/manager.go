package worker

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultShutdownTimeout - сколько ждать, пока воркеры допишут текущий проход синхронизации
const defaultShutdownTimeout = 30 * time.Second

// WorkerManager запускает воркеры и сообщает об их аварийном завершении
type WorkerManager struct {
	workers         []Worker
	logger          *zap.Logger
	shutdownTimeout time.Duration
	failures        chan error

	wg sync.WaitGroup
	mu sync.Mutex
}

// ManagerOption настраивает WorkerManager
type ManagerOption func(*WorkerManager)

// WithShutdownTimeout меняет время ожидания в Stop
func WithShutdownTimeout(d time.Duration) ManagerOption {
	return func(m *WorkerManager) {
		if d > 0 {
			m.shutdownTimeout = d
		}
	}
}

func NewWorkerManager(logger *zap.Logger, opts ...ManagerOption) *WorkerManager {
	m := &WorkerManager{
		logger:          logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start запускает каждый воркер в своей горутине и не блокируется
func (m *WorkerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.failures = make(chan error, len(workers))
	failures := m.failures
	m.mu.Unlock()

	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()

			err := w.Start(ctx)
			if err == nil || stderrors.Is(err, context.Canceled) {
				m.logger.Info("Worker exited", zap.String("name", w.Name()))
				return
			}
			m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
			failures <- fmt.Errorf("worker %s: %w", w.Name(), err)
		}(w)
	}

	return nil
}

// Failures - ошибки воркеров, завершившихся не по отмене. До Start возвращает nil.
func (m *WorkerManager) Failures() <-chan error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

// Stop сигнализирует всем воркерам и ждёт их не дольше shutdownTimeout
func (m *WorkerManager) Stop() error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-time.After(m.shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out, a sweep may have been interrupted",
			zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}
