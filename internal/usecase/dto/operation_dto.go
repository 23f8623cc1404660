package dto

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/pkg/geo"
)

// WeatherInput - погодные условия, введённые оператором или подтянутые из сервиса
type WeatherInput struct {
	Temperature  float64 `json:"temp" validate:"min=-50,max=60"`
	Humidity     float64 `json:"humidity" validate:"min=0,max=100"`
	WindSpeed    float64 `json:"wind" validate:"min=0,max=300"`
	SlopePercent float64 `json:"slope" validate:"min=0,max=1000"`
	FuelMoisture float64 `json:"fuel_moisture" validate:"min=0,max=100"`
	Aspect       string  `json:"aspect" validate:"max=16"`
}

func (w WeatherInput) ToDomain() domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Temperature:  w.Temperature,
		Humidity:     w.Humidity,
		WindSpeed:    w.WindSpeed,
		SlopePercent: w.SlopePercent,
		FuelMoisture: w.FuelMoisture,
		Aspect:       w.Aspect,
	}
}

// CreateOperationRequest - сохранение операции одним запросом, минуя черновик
type CreateOperationRequest struct {
	Name        string             `json:"name" validate:"max=200"`
	Location    string             `json:"location" validate:"max=200"`
	FuelModel   string             `json:"fuel_model" validate:"fuel_model"`
	Status      string             `json:"status" validate:"omitempty,oneof=planning active completed"`
	Weather     WeatherInput       `json:"weather"`
	AreaGeoJSON json.RawMessage    `json:"area_geojson,omitempty"`
	AIReport    *string            `json:"ai_report,omitempty"`
	Personnel   []uuid.UUID        `json:"personnel_ids,omitempty"`
	Hours       map[string]float64 `json:"hours,omitempty"`
}

// SaveResponse - результат сохранения с сообщением для оператора
type SaveResponse struct {
	Record  *domain.OperationRecord `json:"record"`
	Path    domain.SavePath         `json:"path"`
	Reason  domain.FallbackReason   `json:"reason,omitempty"`
	States  []domain.SaveState      `json:"states"`
	Message string                  `json:"message"`
}

// NewSaveResponse подбирает текст уведомления по пути сохранения
func NewSaveResponse(outcome *domain.SaveOutcome) *SaveResponse {
	msg := "Report salvato su Cloud (Archivio Centrale)."
	switch outcome.Reason {
	case domain.FallbackOffline:
		msg = "Nessuna connessione. Report salvato in locale, verrà inviato appena sarai online."
	case domain.FallbackAnonymous:
		msg = "Utente non loggato. Salvataggio in locale."
	case domain.FallbackRemoteError:
		msg = "Errore server. Salvataggio in locale (offline)."
	}

	return &SaveResponse{
		Record:  outcome.Record,
		Path:    outcome.Path,
		Reason:  outcome.Reason,
		States:  outcome.States,
		Message: msg,
	}
}

// OperationListResponse - локальные несинхронизированные записи идут первыми
type OperationListResponse struct {
	Operations []*domain.OperationRecord `json:"operations"`
	Pending    int                       `json:"pending"`
	Unreadable []string                  `json:"unreadable,omitempty"`
	Remote     bool                      `json:"remote"`
}

// AddPersonRequest - новый сотрудник в реестре устройства
type AddPersonRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Role string `json:"role" validate:"required,personnel_role"`
}

// GeometryStatsRequest - вершины или GeoJSON полигона
type GeometryStatsRequest struct {
	Vertices []PointInput    `json:"vertices,omitempty" validate:"omitempty,dive"`
	GeoJSON  json.RawMessage `json:"geojson,omitempty"`
}

// PointInput - вершина полигона
type PointInput struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// GeometryStatsResponse - характеристики полигона и его GeoJSON
type GeometryStatsResponse struct {
	Stats   geo.Stats    `json:"stats"`
	GeoJSON *geo.Polygon `json:"geojson"`
}

// Points переводит вершины запроса в точки движка геометрии
func Points(in []PointInput) []geo.Point {
	out := make([]geo.Point, 0, len(in))
	for _, p := range in {
		out = append(out, geo.Point{Lat: p.Lat, Lon: p.Lon})
	}
	return out
}
