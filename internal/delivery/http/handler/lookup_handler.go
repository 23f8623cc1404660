package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/pkg/validator"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// LookupHandler - погода и поиск мест
type LookupHandler struct {
	lookupUC *usecase.LookupUseCase
	logger   *zap.Logger
}

func NewLookupHandler(lookupUC *usecase.LookupUseCase, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupUC: lookupUC,
		logger:   logger,
	}
}

// Weather godoc
// @Summary Текущая погода в точке
// @Tags Lookup
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=domain.WeatherConditions}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/lookup/weather [get]
func (h *LookupHandler) Weather(c *fiber.Ctx) error {
	var req dto.WeatherLookupRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(validator.FieldErrors(err)))
	}

	w, err := h.lookupUC.Weather(c.UserContext(), req.Lat, req.Lon)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, w, nil)
}

// Geocode godoc
// @Summary Поиск места по названию
// @Tags Lookup
// @Produce json
// @Param q query string true "Название (минимум 2 символа)"
// @Success 200 {object} utils.SuccessResponse{data=domain.Place}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/lookup/geocode [get]
func (h *LookupHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeLookupRequest{Query: c.Query("q")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err)))
	}

	place, err := h.lookupUC.Geocode(c.UserContext(), req.Query)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, place, nil)
}
