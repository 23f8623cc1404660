package handler

import (
	"context"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// SessionGate - вход, текущий пользователь и выход
type SessionGate interface {
	SignIn(ctx context.Context, token string) (*domain.Identity, error)
	CurrentIdentity(ctx context.Context) *domain.Identity
	SignOut(ctx context.Context) error
}

type SessionHandler struct {
	gate   SessionGate
	logger *zap.Logger
}

func NewSessionHandler(gate SessionGate, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		gate:   gate,
		logger: logger,
	}
}

// SignIn godoc
// @Summary Войти по токену провайдера
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.SessionRequest true "JWT"
// @Success 200 {object} utils.SuccessResponse{data=domain.Identity}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/session [post]
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	identity, err := h.gate.SignIn(c.UserContext(), req.Token)
	if err != nil {
		if stderrors.Is(err, domain.ErrInvalidToken) {
			return utils.SendError(c, errors.ErrInvalidSession)
		}
		h.logger.Error("Failed to persist session", zap.Error(err))
		return utils.SendError(c, errors.ErrLocalStorageFailed)
	}
	return utils.SendSuccess(c, identity, nil)
}

// Get godoc
// @Summary Текущий пользователь
// @Description 401, если сессии нет или токен просрочен (сессия при этом сбрасывается)
// @Tags Session
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Identity}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	identity := h.gate.CurrentIdentity(c.UserContext())
	if identity == nil {
		return utils.SendError(c, errors.ErrUnauthorized)
	}
	return utils.SendSuccess(c, identity, nil)
}

// SignOut godoc
// @Summary Выйти
// @Tags Session
// @Success 204
// @Router /api/v1/session [delete]
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	if err := h.gate.SignOut(c.UserContext()); err != nil {
		h.logger.Error("Failed to sign out", zap.Error(err))
		return utils.SendError(c, errors.ErrLocalStorageFailed)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
