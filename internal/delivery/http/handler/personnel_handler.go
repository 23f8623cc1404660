package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// PersonnelHandler - реестр сотрудников
type PersonnelHandler struct {
	personnelUC *usecase.PersonnelUseCase
	logger      *zap.Logger
}

func NewPersonnelHandler(personnelUC *usecase.PersonnelUseCase, logger *zap.Logger) *PersonnelHandler {
	return &PersonnelHandler{
		personnelUC: personnelUC,
		logger:      logger,
	}
}

// Add godoc
// @Summary Добавить сотрудника
// @Tags Personnel
// @Accept json
// @Produce json
// @Param request body dto.AddPersonRequest true "Сотрудник"
// @Success 201 {object} utils.SuccessResponse{data=domain.PersonnelRecord}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/personnel [post]
func (h *PersonnelHandler) Add(c *fiber.Ctx) error {
	var req dto.AddPersonRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	p, err := h.personnelUC.Add(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, p)
}

// List godoc
// @Summary Список сотрудников
// @Tags Personnel
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.PersonnelRecord}
// @Router /api/v1/personnel [get]
func (h *PersonnelHandler) List(c *fiber.Ctx) error {
	people, err := h.personnelUC.List(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, people, &utils.Meta{Total: len(people)})
}

// Remove godoc
// @Summary Удалить сотрудника
// @Description Сохранённые операции не меняются
// @Tags Personnel
// @Param id path string true "UUID сотрудника"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/personnel/{id} [delete]
func (h *PersonnelHandler) Remove(c *fiber.Ctx) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}

	if err := h.personnelUC.Remove(c.UserContext(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
