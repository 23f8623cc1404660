package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/utils"
	"github.com/burn-ops-service/internal/repository/cache"
)

// LookupUseCase - погода и геокодирование с кешированием в Redis.
// Кеш необязателен: при его отказе запрос идёт напрямую в сервис.
type LookupUseCase struct {
	weather    repository.WeatherRepository
	geocoder   repository.GeocoderRepository
	cacheRepo  repository.CacheRepository
	weatherTTL time.Duration
	geocodeTTL time.Duration
	logger     *zap.Logger
}

// NewLookupUseCase создает use case. cacheRepo может быть nil.
func NewLookupUseCase(
	weather repository.WeatherRepository,
	geocoder repository.GeocoderRepository,
	cacheRepo repository.CacheRepository,
	weatherTTL, geocodeTTL time.Duration,
	logger *zap.Logger,
) *LookupUseCase {
	return &LookupUseCase{
		weather:    weather,
		geocoder:   geocoder,
		cacheRepo:  cacheRepo,
		weatherTTL: weatherTTL,
		geocodeTTL: geocodeTTL,
		logger:     logger,
	}
}

func weatherCacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.3f:%.3f", utils.RoundCoordinate(lat, 3), utils.RoundCoordinate(lon, 3))
}

func geocodeCacheKey(query string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(query))
}

// Weather - текущие условия в точке
func (uc *LookupUseCase) Weather(ctx context.Context, lat, lon float64) (*domain.WeatherConditions, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	key := weatherCacheKey(lat, lon)
	var cached domain.WeatherConditions
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	w, err := uc.weather.Current(ctx, lat, lon)
	if err != nil {
		uc.logger.Warn("Weather lookup failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return nil, errors.ErrLookupFailed
	}

	uc.toCache(ctx, key, w, uc.weatherTTL)
	return w, nil
}

// Geocode - первое место, совпавшее с запросом
func (uc *LookupUseCase) Geocode(ctx context.Context, query string) (*domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("Query is required")
	}

	key := geocodeCacheKey(query)
	var cached domain.Place
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	place, err := uc.geocoder.Search(ctx, query)
	if err != nil {
		if stderrors.Is(err, domain.ErrNotFound) {
			return nil, errors.ErrPlaceNotFound
		}
		uc.logger.Warn("Geocoding failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ErrLookupFailed
	}

	uc.toCache(ctx, key, place, uc.geocodeTTL)
	return place, nil
}

func (uc *LookupUseCase) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if uc.cacheRepo == nil {
		return false
	}
	hit, err := cache.GetJSON(ctx, uc.cacheRepo, key, dst)
	if err != nil {
		uc.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (uc *LookupUseCase) toCache(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if uc.cacheRepo == nil {
		return
	}
	if err := cache.SetJSON(ctx, uc.cacheRepo, key, v, ttl); err != nil {
		uc.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
