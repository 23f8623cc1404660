package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// GeometryHandler - площадь, периметр и центр полигона
type GeometryHandler struct{}

func NewGeometryHandler() *GeometryHandler {
	return &GeometryHandler{}
}

// Stats godoc
// @Summary Характеристики полигона
// @Description Площадь (га), периметр (м) и центр ограничивающего прямоугольника. Принимает вершины или GeoJSON Polygon.
// @Tags Geometry
// @Accept json
// @Produce json
// @Param request body dto.GeometryStatsRequest true "Вершины или GeoJSON"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeometryStatsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/geometry/stats [post]
func (h *GeometryHandler) Stats(c *fiber.Ctx) error {
	var req dto.GeometryStatsRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	result, err := usecase.ComputeGeometry(req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}
