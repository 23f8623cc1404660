package usecase

import (
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/geo"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// ComputeGeometry считает характеристики полигона из вершин или GeoJSON
func ComputeGeometry(req dto.GeometryStatsRequest) (*dto.GeometryStatsResponse, error) {
	var ring []geo.Point
	switch {
	case len(req.Vertices) > 0:
		ring = dto.Points(req.Vertices)
	case len(req.GeoJSON) > 0:
		parsed, err := geo.FromGeoJSON(req.GeoJSON)
		if err != nil {
			return nil, errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{"error": err.Error()})
		}
		ring = parsed
	default:
		return nil, errors.ErrInvalidGeometry
	}

	stats := geo.Compute(ring)
	if stats.VertexCount < 3 {
		return nil, errors.ErrInvalidGeometry
	}

	return &dto.GeometryStatsResponse{
		Stats:   stats,
		GeoJSON: geo.ToGeoJSON(ring),
	}, nil
}
