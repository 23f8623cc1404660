package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
)

// WeatherRepository - источник текущих погодных условий
type WeatherRepository interface {
	Current(ctx context.Context, lat, lon float64) (*domain.WeatherConditions, error)
}

// GeocoderRepository - поиск места по названию
type GeocoderRepository interface {
	// Search возвращает domain.ErrNotFound, если ничего не найдено
	Search(ctx context.Context, query string) (*domain.Place, error)
}
