package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/worker"
)

// ConnectivityReporter принимает сообщение устройства о состоянии сети
type ConnectivityReporter interface {
	Report(online bool, source string) bool
}

// ConnectivityWorker читает stream:connectivity и передаёт отчёты устройств монитору.
// Переход в online в мониторе запускает проход синхронизации.
type ConnectivityWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	reporter     ConnectivityReporter
	consumerName string
}

func NewConnectivityWorker(
	streamRepo repository.StreamRepository,
	reporter ConnectivityReporter,
	consumerGroup string,
	logger *zap.Logger,
) *ConnectivityWorker {
	hostname, _ := os.Hostname()

	return &ConnectivityWorker{
		BaseWorker:   worker.NewBaseWorker("connectivity-reports", consumerGroup, logger),
		streamRepo:   streamRepo,
		reporter:     reporter,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

func (w *ConnectivityWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ConnectivityWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamConnectivity, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamConnectivity, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *ConnectivityWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger()

	var event domain.ConnectivityReportEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil || !event.Validate() {
		logger.Warn("Invalid connectivity report, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		_ = w.streamRepo.AckMessage(ctx, domain.StreamConnectivity, w.ConsumerGroup(), msg.ID)
		return
	}

	source := "device"
	if event.DeviceID != "" {
		source = "device:" + event.DeviceID
	}
	if w.reporter.Report(event.IsOnline(), source) {
		logger.Info("Connectivity changed by device report",
			zap.String("state", string(event.State)),
			zap.String("source", source))
	}

	if err := w.streamRepo.AckMessage(ctx, domain.StreamConnectivity, w.ConsumerGroup(), msg.ID); err != nil {
		logger.Warn("Failed to ack connectivity report", zap.String("message_id", msg.ID), zap.Error(err))
	}
}
