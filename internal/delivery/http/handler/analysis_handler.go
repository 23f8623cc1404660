package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// AnalysisHandler - анализ CPS, учебный чат и чек-листы безопасности
type AnalysisHandler struct {
	analysisUC *usecase.AnalysisUseCase
	logger     *zap.Logger
}

func NewAnalysisHandler(analysisUC *usecase.AnalysisUseCase, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUC: analysisUC,
		logger:     logger,
	}
}

// Analyze godoc
// @Summary Тактический анализ CPS
// @Description Без ключа API возвращает детерминированную симуляцию
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalysisRequest true "Условия"
// @Success 200 {object} utils.SuccessResponse{data=domain.Analysis}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/analysis [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalysisRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	result, err := h.analysisUC.Analyze(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Chat godoc
// @Summary Учебный тренажёр
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "История диалога"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChatResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/chat [post]
func (h *AnalysisHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.analysisUC.Chat(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}

// Checklist godoc
// @Summary Протокол LACES и чек-листы фаз
// @Tags Analysis
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Checklist}
// @Router /api/v1/checklist [get]
func (h *AnalysisHandler) Checklist(c *fiber.Ctx) error {
	return utils.SendSuccess(c, domain.SafetyChecklist(), nil)
}
