package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/pkg/validator"
)

// parseBody разбирает и валидирует тело запроса. При ошибке ответ уже отправлен.
func parseBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(dst); err != nil {
		return false, utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err)))
	}
	return true, nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false, utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid id"))
	}
	return id, true, nil
}
