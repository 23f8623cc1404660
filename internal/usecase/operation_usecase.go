package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/geo"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// OperationUseCase - сохранение и просмотр операций поверх локального и удалённого хранилищ
type OperationUseCase struct {
	coordinator *SyncCoordinator
	local       repository.LocalOperationRepository
	remote      repository.RemoteOperationRepository
	identity    repository.IdentityProvider
	signal      repository.ConnectivitySignal
	personnel   *PersonnelUseCase
	logger      *zap.Logger
	now         func() time.Time
}

func NewOperationUseCase(
	coordinator *SyncCoordinator,
	local repository.LocalOperationRepository,
	remote repository.RemoteOperationRepository,
	identity repository.IdentityProvider,
	signal repository.ConnectivitySignal,
	personnel *PersonnelUseCase,
	logger *zap.Logger,
) *OperationUseCase {
	return &OperationUseCase{
		coordinator: coordinator,
		local:       local,
		remote:      remote,
		identity:    identity,
		signal:      signal,
		personnel:   personnel,
		logger:      logger,
		now:         time.Now,
	}
}

// Create сохраняет операцию из тела запроса через координатор синхронизации
func (uc *OperationUseCase) Create(ctx context.Context, req dto.CreateOperationRequest) (*domain.SaveOutcome, error) {
	rec := domain.NewOperationRecord(req.Name, uc.now())
	rec.LocationLabel = req.Location
	rec.FuelModel = domain.FuelModel(req.FuelModel)
	rec.Weather = req.Weather.ToDomain()
	rec.AIReportText = req.AIReport
	if req.Status != "" {
		rec.Status = domain.OperationStatus(req.Status)
	}

	if len(req.AreaGeoJSON) > 0 && string(req.AreaGeoJSON) != "null" {
		ring, err := geo.FromGeoJSON(req.AreaGeoJSON)
		if err != nil {
			return nil, errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{"error": err.Error()})
		}
		area, err := json.Marshal(geo.ToGeoJSON(ring))
		if err != nil {
			return nil, errors.ErrInvalidGeometry
		}
		rec.AreaGeoJSON = area
	}

	hours := make(map[uuid.UUID]float64, len(req.Hours))
	for k, v := range req.Hours {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, errors.ErrInvalidRequest.WithMessage("Invalid personnel id in hours")
		}
		hours[id] = v
	}
	ph, err := uc.personnelHours(ctx, req.Personnel, hours)
	if err != nil {
		return nil, err
	}
	rec.PersonnelHours = ph

	return uc.coordinator.Save(ctx, rec)
}

func (uc *OperationUseCase) personnelHours(ctx context.Context, selected []uuid.UUID, hours map[uuid.UUID]float64) (domain.PersonnelHours, error) {
	people, err := uc.personnel.snapshot(ctx)
	if err != nil {
		uc.logger.Error("Failed to read personnel registry", zap.Error(err))
		return domain.PersonnelHours{}, errors.ErrDatabaseError
	}
	return domain.BuildPersonnelHours(people, selected, hours), nil
}

// List - локальные несинхронизированные записи, затем записи владельца из облака.
// Облачная часть пропускается без ошибки, если нет сети или сессии.
func (uc *OperationUseCase) List(ctx context.Context) (*dto.OperationListResponse, error) {
	pending, err := uc.local.QueryUnsyncedOperations(ctx)
	unreadable, err := domain.UnreadableIDs(err)
	if err != nil {
		uc.logger.Error("Failed to query local operations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	resp := &dto.OperationListResponse{
		Operations: make([]*domain.OperationRecord, 0, len(pending)),
		Pending:    len(pending) + len(unreadable),
		Unreadable: unreadable,
	}
	seen := make(map[uuid.UUID]struct{}, len(pending))
	for _, rec := range pending {
		seen[rec.ID] = struct{}{}
		resp.Operations = append(resp.Operations, rec)
	}

	owner := uc.remoteOwner(ctx)
	if owner == "" {
		return resp, nil
	}

	remote, err := uc.remote.ListByOwner(ctx, owner)
	if err != nil {
		uc.logger.Warn("Remote listing failed, showing local records only", zap.Error(err))
		return resp, nil
	}
	resp.Remote = true
	for _, rec := range remote {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		resp.Operations = append(resp.Operations, rec)
	}

	return resp, nil
}

// Get ищет запись сначала на устройстве, затем в облаке
func (uc *OperationUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error) {
	rec, err := uc.local.GetOperation(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !stderrors.Is(err, domain.ErrNotFound) {
		uc.logger.Error("Failed to read local operation", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	owner := uc.remoteOwner(ctx)
	if owner == "" {
		return nil, errors.ErrOperationNotFound
	}

	rec, err = uc.remote.GetByID(ctx, owner, id)
	if err != nil {
		if stderrors.Is(err, domain.ErrNotFound) {
			return nil, errors.ErrOperationNotFound
		}
		uc.logger.Warn("Remote lookup failed", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrRemoteUnavailable
	}
	return rec, nil
}

// Delete удаляет запись локально и, при наличии сессии и сети, в облаке
func (uc *OperationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	found := false

	err := uc.local.DeleteOperation(ctx, id)
	switch {
	case err == nil:
		found = true
	case !stderrors.Is(err, domain.ErrNotFound):
		uc.logger.Error("Failed to delete local operation", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if owner := uc.remoteOwner(ctx); owner != "" {
		err := uc.remote.Delete(ctx, owner, id)
		switch {
		case err == nil:
			found = true
		case stderrors.Is(err, domain.ErrNotFound):
		default:
			uc.logger.Warn("Remote delete failed", zap.String("id", id.String()), zap.Error(err))
			if !found {
				return errors.ErrRemoteUnavailable
			}
		}
	}

	if !found {
		return errors.ErrOperationNotFound
	}
	uc.logger.Info("Operation deleted", zap.String("id", id.String()))
	return nil
}

// remoteOwner - id владельца, если облако сейчас доступно, иначе ""
func (uc *OperationUseCase) remoteOwner(ctx context.Context) string {
	if !uc.signal.IsOnline() {
		return ""
	}
	identity := uc.identity.CurrentIdentity(ctx)
	if identity == nil {
		return ""
	}
	return identity.UserID
}
