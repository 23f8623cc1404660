package domain

import (
	"time"

	"github.com/burn-ops-service/internal/pkg/geo"
	"github.com/google/uuid"
)

// BurnForm - поля формы операции, заполняемые оператором
type BurnForm struct {
	Name          string          `json:"name"`
	LocationLabel string          `json:"location"`
	FuelModel     FuelModel       `json:"fuel_model"`
	Weather       WeatherSnapshot `json:"weather"`
}

// DrawnArea - единственный нарисованный полигон текущей сессии редактирования
type DrawnArea struct {
	Vertices []geo.Point `json:"vertices"`
	Stats    geo.Stats   `json:"stats"`
	DrawnAt  time.Time   `json:"drawn_at"`
}

// TeamSelection - выбранные сотрудники и их часы
type TeamSelection struct {
	SelectedIDs []uuid.UUID           `json:"selected_ids"`
	Hours       map[uuid.UUID]float64 `json:"hours"`
}

// BurnDraft - явный контейнер состояния черновика операции
type BurnDraft struct {
	Form      BurnForm      `json:"form"`
	Area      *DrawnArea    `json:"area,omitempty"`
	Team      TeamSelection `json:"team"`
	Report    *string       `json:"report,omitempty"`
	// ReportWeather - погода, по которой сгенерирован Report
	ReportWeather *WeatherSnapshot `json:"report_weather,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewBurnDraft - пустой черновик
func NewBurnDraft() BurnDraft {
	return BurnDraft{
		Team: TeamSelection{
			SelectedIDs: []uuid.UUID{},
			Hours:       map[uuid.UUID]float64{},
		},
	}
}
