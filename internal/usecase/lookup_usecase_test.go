package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	apperrors "github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/usecase"
)

type MockWeatherRepository struct {
	mock.Mock
}

func (m *MockWeatherRepository) Current(ctx context.Context, lat, lon float64) (*domain.WeatherConditions, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherConditions), args.Error(1)
}

type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) Search(ctx context.Context, query string) (*domain.Place, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

const (
	weatherTTL = 10 * time.Minute
	geocodeTTL = 24 * time.Hour
)

func TestLookupUseCase_WeatherCacheMissThenStore(t *testing.T) {
	weather := new(MockWeatherRepository)
	cacheRepo := new(MockCacheRepository)
	conditions := &domain.WeatherConditions{Lat: 40.1234, Lon: 9.5678, Temperature: 21.5, WindSpeed: 14}

	cacheRepo.On("Get", mock.Anything, "weather:40.123:9.568").Return(nil, nil)
	weather.On("Current", mock.Anything, 40.1234, 9.5678).Return(conditions, nil).Once()
	cacheRepo.On("Set", mock.Anything, "weather:40.123:9.568", mock.Anything, weatherTTL).Return(nil)

	uc := usecase.NewLookupUseCase(weather, new(MockGeocoderRepository), cacheRepo, weatherTTL, geocodeTTL, zap.NewNop())
	got, err := uc.Weather(context.Background(), 40.1234, 9.5678)
	require.NoError(t, err)
	assert.Equal(t, 21.5, got.Temperature)

	weather.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestLookupUseCase_WeatherCacheHit(t *testing.T) {
	weather := new(MockWeatherRepository)
	cacheRepo := new(MockCacheRepository)
	cached, _ := json.Marshal(domain.WeatherConditions{Temperature: 19})
	cacheRepo.On("Get", mock.Anything, "weather:40.000:9.000").Return(cached, nil)

	uc := usecase.NewLookupUseCase(weather, new(MockGeocoderRepository), cacheRepo, weatherTTL, geocodeTTL, zap.NewNop())
	got, err := uc.Weather(context.Background(), 40, 9)
	require.NoError(t, err)
	assert.Equal(t, 19.0, got.Temperature)
	weather.AssertNotCalled(t, "Current", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupUseCase_CacheFailureDegrades(t *testing.T) {
	weather := new(MockWeatherRepository)
	cacheRepo := new(MockCacheRepository)
	cacheRepo.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	cacheRepo.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	weather.On("Current", mock.Anything, 40.0, 9.0).Return(&domain.WeatherConditions{Temperature: 25}, nil)

	uc := usecase.NewLookupUseCase(weather, new(MockGeocoderRepository), cacheRepo, weatherTTL, geocodeTTL, zap.NewNop())
	got, err := uc.Weather(context.Background(), 40, 9)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Temperature)
}

func TestLookupUseCase_WeatherErrors(t *testing.T) {
	weather := new(MockWeatherRepository)
	weather.On("Current", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("502 bad gateway"))

	// Без Redis
	uc := usecase.NewLookupUseCase(weather, new(MockGeocoderRepository), nil, weatherTTL, geocodeTTL, zap.NewNop())

	_, err := uc.Weather(context.Background(), 91, 9)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)

	_, err = uc.Weather(context.Background(), 40, 9)
	assert.ErrorIs(t, err, apperrors.ErrLookupFailed)
}

func TestLookupUseCase_Geocode(t *testing.T) {
	geocoder := new(MockGeocoderRepository)
	geocoder.On("Search", mock.Anything, "Oristano").Return(&domain.Place{Lat: 39.9, Lon: 8.59, DisplayName: "Oristano, Sardegna"}, nil)
	geocoder.On("Search", mock.Anything, "Atlantide").Return(nil, domain.ErrNotFound)
	geocoder.On("Search", mock.Anything, "Cagliari").Return(nil, errors.New("timeout"))

	cacheRepo := new(MockCacheRepository)
	cacheRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	cacheRepo.On("Set", mock.Anything, "geocode:oristano", mock.Anything, geocodeTTL).Return(nil)

	uc := usecase.NewLookupUseCase(new(MockWeatherRepository), geocoder, cacheRepo, weatherTTL, geocodeTTL, zap.NewNop())

	place, err := uc.Geocode(context.Background(), " Oristano ")
	require.NoError(t, err)
	assert.Equal(t, "Oristano, Sardegna", place.DisplayName)

	_, err = uc.Geocode(context.Background(), "Atlantide")
	assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)

	_, err = uc.Geocode(context.Background(), "Cagliari")
	assert.ErrorIs(t, err, apperrors.ErrLookupFailed)

	_, err = uc.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	cacheRepo.AssertCalled(t, "Set", mock.Anything, "geocode:oristano", mock.Anything, geocodeTTL)
}
