package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// ConnectivityState - монитор сети узла
type ConnectivityState interface {
	IsOnline() bool
	Report(online bool, source string) bool
}

// SyncHandler - ручной проход синхронизации и состояние сети
type SyncHandler struct {
	coordinator *usecase.SyncCoordinator
	monitor     ConnectivityState
	publisher   usecase.EventPublisher
	logger      *zap.Logger
}

// NewSyncHandler создает обработчик. publisher может быть nil (без Redis).
func NewSyncHandler(coordinator *usecase.SyncCoordinator, monitor ConnectivityState, publisher usecase.EventPublisher, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		coordinator: coordinator,
		monitor:     monitor,
		publisher:   publisher,
		logger:      logger,
	}
}

// Sweep godoc
// @Summary Синхронизировать локальные записи
// @Description Отправляет несинхронизированные записи в облако. Параллельные вызовы объединяются в один проход.
// @Tags Sync
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.SweepResult}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) Sweep(c *fiber.Ctx) error {
	result, err := h.coordinator.Sweep(c.UserContext())
	if err != nil {
		h.logger.Error("Manual sweep failed", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Synced),
		Pending:  result.Pending - len(result.Synced),
		TimeMSec: float64(result.Duration.Microseconds()) / 1000,
	})
}

// Pending godoc
// @Summary Записи, ожидающие синхронизации
// @Tags Sync
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.OperationRecord}
// @Router /api/v1/sync/pending [get]
func (h *SyncHandler) Pending(c *fiber.Ctx) error {
	pending, unreadable, err := h.coordinator.PendingOperations(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list pending operations", zap.Error(err))
		return utils.SendError(c, errors.ErrDatabaseError)
	}
	// Pending в meta учитывает и нечитаемые строки
	return utils.SendSuccess(c, pending, &utils.Meta{Total: len(pending), Pending: len(pending) + len(unreadable)})
}

// ReportConnectivity godoc
// @Summary Сообщить о смене состояния сети
// @Description Устройство сообщает online/offline. Событие также уходит в stream:connectivity для воркера.
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body dto.ConnectivityReportRequest true "Состояние"
// @Success 200 {object} utils.SuccessResponse{data=dto.ConnectivityResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/connectivity [post]
func (h *SyncHandler) ReportConnectivity(c *fiber.Ctx) error {
	var req dto.ConnectivityReportRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	event := domain.ConnectivityReportEvent{
		State:      domain.ConnectivityState(req.State),
		DeviceID:   req.DeviceID,
		ReportedAt: time.Now().UTC(),
	}

	source := "device"
	if req.DeviceID != "" {
		source = "device:" + req.DeviceID
	}
	h.monitor.Report(event.IsOnline(), source)

	if h.publisher != nil {
		if err := h.publisher.PublishToStream(c.UserContext(), domain.StreamConnectivity, event); err != nil {
			h.logger.Warn("Failed to forward connectivity report", zap.Error(err))
		}
	}

	return h.connectivity(c)
}

// GetConnectivity godoc
// @Summary Состояние сети узла
// @Tags Sync
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ConnectivityResponse}
// @Router /api/v1/connectivity [get]
func (h *SyncHandler) GetConnectivity(c *fiber.Ctx) error {
	return h.connectivity(c)
}

func (h *SyncHandler) connectivity(c *fiber.Ctx) error {
	resp := dto.ConnectivityResponse{Online: h.monitor.IsOnline()}
	if pending, unreadable, err := h.coordinator.PendingOperations(c.UserContext()); err == nil {
		resp.Pending = len(pending) + len(unreadable)
	} else {
		h.logger.Warn("Failed to count pending operations", zap.Error(err))
	}
	return utils.SendSuccess(c, resp, nil)
}
