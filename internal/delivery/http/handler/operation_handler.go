package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// OperationHandler - операции контролируемого выжигания
type OperationHandler struct {
	operationUC *usecase.OperationUseCase
	reportUC    *usecase.ReportUseCase
	logger      *zap.Logger
}

func NewOperationHandler(operationUC *usecase.OperationUseCase, reportUC *usecase.ReportUseCase, logger *zap.Logger) *OperationHandler {
	return &OperationHandler{
		operationUC: operationUC,
		reportUC:    reportUC,
		logger:      logger,
	}
}

// Create godoc
// @Summary Сохранить операцию
// @Description Сохранение одним запросом, минуя черновик
// @Tags Operations
// @Accept json
// @Produce json
// @Param request body dto.CreateOperationRequest true "Операция"
// @Success 201 {object} utils.SuccessResponse{data=dto.SaveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOperationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	outcome, err := h.operationUC.Create(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, dto.NewSaveResponse(outcome))
}

// List godoc
// @Summary Список операций
// @Description Несинхронизированные записи устройства, затем записи пользователя из облака
// @Tags Operations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.OperationListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	result, err := h.operationUC.List(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:   len(result.Operations),
		Pending: result.Pending,
	})
}

// Get godoc
// @Summary Операция по id
// @Tags Operations
// @Produce json
// @Param id path string true "UUID операции"
// @Success 200 {object} utils.SuccessResponse{data=domain.OperationRecord}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/operations/{id} [get]
func (h *OperationHandler) Get(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}

	rec, err := h.operationUC.Get(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, rec, nil)
}

// Delete godoc
// @Summary Удалить операцию
// @Tags Operations
// @Param id path string true "UUID операции"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}

	if err := h.operationUC.Delete(c.UserContext(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary Отчёт по операции (Markdown)
// @Tags Operations
// @Produce text/markdown
// @Param id path string true "UUID операции"
// @Success 200 {string} string "Markdown"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/operations/{id}/report [get]
func (h *OperationHandler) Report(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}

	// Рендер в буфер: при ошибке шаблона клиент получает JSON-ошибку, а не обрывок
	var buf bytes.Buffer
	if err := h.reportUC.Render(c.UserContext(), id, &buf); err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="report-`+id.String()+`.md"`)
	return c.Send(buf.Bytes())
}
