package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// DraftHandler - пошаговое заполнение черновика операции
type DraftHandler struct {
	draftUC *usecase.DraftUseCase
	logger  *zap.Logger
}

func NewDraftHandler(draftUC *usecase.DraftUseCase, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		draftUC: draftUC,
		logger:  logger,
	}
}

// Get godoc
// @Summary Текущий черновик
// @Tags Draft
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.BurnDraft}
// @Router /api/v1/draft [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.draftUC.Get(), nil)
}

// Reset godoc
// @Summary Сбросить черновик
// @Tags Draft
// @Success 204
// @Router /api/v1/draft [delete]
func (h *DraftHandler) Reset(c *fiber.Ctx) error {
	h.draftUC.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateForm godoc
// @Summary Обновить поля формы
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.DraftFormRequest true "Поля формы"
// @Success 200 {object} utils.SuccessResponse{data=domain.BurnDraft}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/draft/form [put]
func (h *DraftHandler) UpdateForm(c *fiber.Ctx) error {
	var req dto.DraftFormRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	return utils.SendSuccess(c, h.draftUC.UpdateForm(req), nil)
}

// DrawArea godoc
// @Summary Нарисовать полигон операции
// @Description Новый полигон заменяет предыдущий целиком
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.DrawAreaRequest true "Вершины"
// @Success 200 {object} utils.SuccessResponse{data=domain.BurnDraft}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/draft/area [put]
func (h *DraftHandler) DrawArea(c *fiber.Ctx) error {
	var req dto.DrawAreaRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	draft, err := h.draftUC.DrawArea(dto.Points(req.Vertices))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, draft, nil)
}

// ClearArea godoc
// @Summary Удалить полигон
// @Tags Draft
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.BurnDraft}
// @Router /api/v1/draft/area [delete]
func (h *DraftHandler) ClearArea(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.draftUC.ClearArea(), nil)
}

// SetTeam godoc
// @Summary Выбрать команду и часы
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body dto.DraftTeamRequest true "Команда"
// @Success 200 {object} utils.SuccessResponse{data=domain.BurnDraft}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/draft/team [put]
func (h *DraftHandler) SetTeam(c *fiber.Ctx) error {
	var req dto.DraftTeamRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	draft, err := h.draftUC.SetTeam(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, draft, nil)
}

// Analyze godoc
// @Summary Анализ CPS по полям черновика
// @Description Результат прикрепляется к черновику. Без ключа API возвращается симуляция.
// @Tags Draft
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Analysis}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/draft/analyze [post]
func (h *DraftHandler) Analyze(c *fiber.Ctx) error {
	result, err := h.draftUC.Analyze(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Commit godoc
// @Summary Сохранить черновик как операцию
// @Description Онлайн и с сессией - в облако, иначе на устройство. Ошибка только если запись не сохранена нигде.
// @Tags Draft
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=dto.SaveResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/draft/commit [post]
func (h *DraftHandler) Commit(c *fiber.Ctx) error {
	outcome, err := h.draftUC.Commit(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to commit draft", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, dto.NewSaveResponse(outcome))
}
