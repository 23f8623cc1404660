package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/burn-ops-service/internal/config"
	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"go.uber.org/zap"
)

const currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m"

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает клиент Open-Meteo (текущие условия, без ключа)
func NewClient(cfg *config.WeatherConfig, logger *zap.Logger) repository.WeatherRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   *struct {
		Time               string  `json:"time"`
		Temperature2m      float64 `json:"temperature_2m"`
		RelativeHumidity2m float64 `json:"relative_humidity_2m"`
		WindSpeed10m       float64 `json:"wind_speed_10m"`
		WindDirection10m   float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// Current возвращает текущую погоду в точке
func (c *client) Current(ctx context.Context, lat, lon float64) (*domain.WeatherConditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", currentFields)
	reqURL := c.baseURL + "?" + q.Encode()

	c.logger.Debug("Calling Open-Meteo", zap.Float64("lat", lat), zap.Float64("lon", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Open-Meteo request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Open-Meteo returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("open-meteo error: status %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if fr.Current == nil {
		return nil, fmt.Errorf("open-meteo response has no current block")
	}

	return &domain.WeatherConditions{
		Lat:           lat,
		Lon:           lon,
		Temperature:   fr.Current.Temperature2m,
		Humidity:      fr.Current.RelativeHumidity2m,
		WindSpeed:     fr.Current.WindSpeed10m,
		WindDirection: fr.Current.WindDirection10m,
		ObservedAt:    fr.Current.Time,
	}, nil
}
