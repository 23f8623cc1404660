package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	apperrors "github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// EventPublisher - публикация событий синхронизации (Redis Streams)
type EventPublisher interface {
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// SyncCoordinator решает при сохранении, писать ли сразу в удалённое хранилище
// или в локальное, и позже досылает локальный бэклог.
type SyncCoordinator struct {
	local     repository.LocalOperationRepository
	remote    repository.RemoteOperationRepository
	identity  repository.IdentityProvider
	signal    repository.ConnectivitySignal
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	sweeps singleflight.Group
	now    func() time.Time
}

// NewSyncCoordinator создает координатор. publisher может быть nil.
func NewSyncCoordinator(
	local repository.LocalOperationRepository,
	remote repository.RemoteOperationRepository,
	identity repository.IdentityProvider,
	signal repository.ConnectivitySignal,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SyncCoordinator {
	return &SyncCoordinator{
		local:     local,
		remote:    remote,
		identity:  identity,
		signal:    signal,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Save проводит одну запись через автомат Idle -> AttemptingRemote/FallingBackLocal -> Done.
// Единственная ошибка, которую видит вызывающий, - отказ локальной записи.
func (c *SyncCoordinator) Save(ctx context.Context, rec *domain.OperationRecord) (*domain.SaveOutcome, error) {
	outcome := &domain.SaveOutcome{
		Record: rec,
		States: []domain.SaveState{domain.SaveIdle},
	}

	var owner *domain.Identity
	switch {
	case !c.signal.IsOnline():
		outcome.Reason = domain.FallbackOffline
	default:
		owner = c.identity.CurrentIdentity(ctx)
		if owner == nil {
			outcome.Reason = domain.FallbackAnonymous
		}
	}

	if owner != nil {
		outcome.States = append(outcome.States, domain.SaveAttemptingRemote)
		ownerID := owner.UserID
		rec.OwnerID = &ownerID

		err := c.remote.Insert(ctx, ownerID, rec)
		if err == nil {
			rec.Synced = true
			outcome.Path = domain.SavedRemote
			outcome.States = append(outcome.States, domain.SaveDone)
			c.metrics.SavesTotal.WithLabelValues(string(domain.SavedRemote), "").Inc()
			c.publishSynced(ctx, rec, ownerID)

			c.logger.Info("operation saved remotely", zap.String("id", rec.ID.String()))
			return outcome, nil
		}

		c.logger.Warn("remote insert failed, falling back to local store",
			zap.String("id", rec.ID.String()),
			zap.Error(err))
		outcome.Reason = domain.FallbackRemoteError
	}

	outcome.States = append(outcome.States, domain.SaveFallingBackLocal)
	rec.Synced = false

	if err := c.local.InsertOperation(ctx, rec); err != nil {
		c.metrics.LocalWriteFailures.Inc()
		c.logger.Error("local store write failed, operation not saved",
			zap.String("id", rec.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("save operation %s: %w: %w", rec.ID, apperrors.ErrLocalStorageFailed, err)
	}

	outcome.Path = domain.SavedLocal
	outcome.States = append(outcome.States, domain.SaveDone)
	c.metrics.SavesTotal.WithLabelValues(string(domain.SavedLocal), string(outcome.Reason)).Inc()

	c.logger.Info("operation saved locally",
		zap.String("id", rec.ID.String()),
		zap.String("reason", string(outcome.Reason)))
	return outcome, nil
}

// Sweep досылает несинхронизированные записи. Перекрывающиеся вызовы
// схлопываются в один проход; вызов после завершения прохода запускает новый.
func (c *SyncCoordinator) Sweep(ctx context.Context) (*domain.SweepResult, error) {
	// Начатые записи доводятся до конца даже при отмене контекста вызывающего
	sweepCtx := context.WithoutCancel(ctx)

	v, err, shared := c.sweeps.Do("sweep", func() (interface{}, error) {
		return c.sweep(sweepCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight sweep")
	}
	return v.(*domain.SweepResult), nil
}

func (c *SyncCoordinator) sweep(ctx context.Context) (*domain.SweepResult, error) {
	started := c.now()
	result := domain.NewSweepResult()
	defer func() {
		result.Duration = c.now().Sub(started)
		c.metrics.SweepDuration.Observe(result.Duration.Seconds())
	}()

	pending, unreadable, err := c.queryPending(ctx)
	if err != nil {
		c.metrics.SweepsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	result.Unreadable = append(result.Unreadable, unreadable...)
	result.Pending = len(pending) + len(unreadable)
	c.metrics.PendingRecords.Set(float64(result.Pending))

	if len(pending) == 0 {
		if len(unreadable) > 0 {
			c.metrics.SweepsTotal.WithLabelValues("partial").Inc()
		} else {
			c.metrics.SweepsTotal.WithLabelValues("empty").Inc()
		}
		return result, nil
	}

	if !c.signal.IsOnline() {
		result.Aborted = true
		result.AbortReason = domain.SweepOffline
		c.metrics.SweepsTotal.WithLabelValues("aborted").Inc()
		return result, nil
	}

	identity := c.identity.CurrentIdentity(ctx)
	if identity == nil {
		c.logger.Info("sweep aborted: no authenticated identity", zap.Int("pending", len(pending)))
		result.Aborted = true
		result.AbortReason = domain.SweepNoIdentity
		c.metrics.SweepsTotal.WithLabelValues("aborted").Inc()
		return result, nil
	}
	ownerID := identity.UserID

	for _, rec := range pending {
		// Запись другого пользователя удалённое хранилище всё равно отвергнет
		if !rec.IsOwnedBy(ownerID) {
			result.Skipped = append(result.Skipped, rec.ID)
			c.metrics.RecordsSkipped.Inc()
			continue
		}
		rec.OwnerID = &ownerID

		if err := c.remote.Insert(ctx, ownerID, rec); err != nil {
			c.logger.Warn("sync failed, record stays pending",
				zap.String("id", rec.ID.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, rec.ID)
			c.metrics.RecordsFailed.Inc()
			continue
		}

		// Повторная вставка при следующем проходе - no-op на удалённой стороне
		if err := c.local.MarkSynced(ctx, rec.ID); err != nil {
			c.logger.Error("remote accepted record but local mark failed",
				zap.String("id", rec.ID.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, rec.ID)
			c.metrics.RecordsFailed.Inc()
			continue
		}

		rec.Synced = true
		result.Synced = append(result.Synced, rec.ID)
		c.metrics.RecordsSynced.Inc()
		c.publishSynced(ctx, rec, ownerID)
	}

	outcome := "completed"
	if len(result.Failed) > 0 || len(result.Unreadable) > 0 {
		outcome = "partial"
	}
	c.metrics.SweepsTotal.WithLabelValues(outcome).Inc()

	c.logger.Info("sweep finished",
		zap.Int("pending", result.Pending),
		zap.Int("synced", len(result.Synced)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("unreadable", len(result.Unreadable)))
	return result, nil
}

// PendingOperations - локальные записи, ещё не принятые удалённым хранилищем,
// и id строк, которые не удалось прочитать
func (c *SyncCoordinator) PendingOperations(ctx context.Context) ([]*domain.OperationRecord, []string, error) {
	return c.queryPending(ctx)
}

func (c *SyncCoordinator) queryPending(ctx context.Context) ([]*domain.OperationRecord, []string, error) {
	pending, err := c.local.QueryUnsyncedOperations(ctx)
	unreadable, err := domain.UnreadableIDs(err)
	if err != nil {
		return nil, nil, fmt.Errorf("query unsynced operations: %w", err)
	}
	if len(unreadable) > 0 {
		c.logger.Error("unsynced records cannot be read and will not sync",
			zap.Strings("ids", unreadable))
	}
	return pending, unreadable, nil
}

// Run запускает проход при каждом переходе в online. Блокируется до отмены ctx.
func (c *SyncCoordinator) Run(ctx context.Context) error {
	events, unsubscribe := c.signal.Subscribe()
	defer unsubscribe()

	// Бэклог, накопленный до перезапуска процесса
	if c.signal.IsOnline() {
		c.runSweep(ctx, "startup")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.State != domain.Online {
				continue
			}
			c.runSweep(ctx, ev.Source)
		}
	}
}

func (c *SyncCoordinator) runSweep(ctx context.Context, trigger string) {
	result, err := c.Sweep(ctx)
	if err != nil {
		c.logger.Error("sweep failed", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	c.logger.Debug("sweep triggered",
		zap.String("trigger", trigger),
		zap.Int("synced", len(result.Synced)),
		zap.Bool("aborted", result.Aborted))
}

func (c *SyncCoordinator) publishSynced(ctx context.Context, rec *domain.OperationRecord, ownerID string) {
	if c.publisher == nil {
		return
	}
	event := domain.OperationSyncedEvent{
		OperationID: rec.ID,
		OwnerID:     ownerID,
		Name:        rec.Name,
		CreatedAt:   rec.CreatedAt,
		SyncedAt:    c.now().UTC(),
	}
	if err := c.publisher.PublishToStream(ctx, domain.StreamBurnSynced, event); err != nil {
		c.logger.Warn("failed to publish synced event",
			zap.String("id", rec.ID.String()),
			zap.Error(err))
	}
}
