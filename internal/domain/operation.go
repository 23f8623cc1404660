package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultOperationName подставляется, если оператор не задал имя
const DefaultOperationName = "Operazione Senza Nome"

// FuelModel - модель горючего материала (фиксированный словарь)
type FuelModel string

const (
	FuelBosco              FuelModel = "Bosco"
	FuelMacchiaAlta        FuelModel = "Macchia Alta"
	FuelMacchiaBassa       FuelModel = "Macchia bassa"
	FuelSottobosco         FuelModel = "Sottobosco"
	FuelPascolo            FuelModel = "Pascolo"
	FuelPascoloAlberato    FuelModel = "Pascolo Alberato"
	FuelPascoloCespugliato FuelModel = "Pascolo cespugliato"
	FuelLettiera           FuelModel = "Lettiera"
	FuelPineta             FuelModel = "Pineta"
)

// FuelModels - допустимые значения в порядке отображения
var FuelModels = []FuelModel{
	FuelBosco,
	FuelMacchiaAlta,
	FuelMacchiaBassa,
	FuelSottobosco,
	FuelPascolo,
	FuelPascoloAlberato,
	FuelPascoloCespugliato,
	FuelLettiera,
	FuelPineta,
}

func (f FuelModel) IsValid() bool {
	for _, m := range FuelModels {
		if f == m {
			return true
		}
	}
	return false
}

type OperationStatus string

const (
	StatusPlanning  OperationStatus = "planning"
	StatusActive    OperationStatus = "active"
	StatusCompleted OperationStatus = "completed"
)

// WeatherSnapshot - условия на момент анализа. После генерации AI-отчёта не меняется.
// JSON-имена совпадают с колонкой weather_data удалённой схемы.
type WeatherSnapshot struct {
	Temperature  float64 `json:"temp"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind"`
	SlopePercent float64 `json:"slope"`
	FuelMoisture float64 `json:"fuel_moisture"`
	Aspect       string  `json:"aspect"`
}

// Participant - снимок имени и роли сотрудника на момент сохранения операции
type Participant struct {
	ID   uuid.UUID     `json:"id"`
	Name string        `json:"name"`
	Role PersonnelRole `json:"role"`
}

// PersonnelHours - агрегат часов работы, встроенный в операцию (колонка personnel_hours)
type PersonnelHours struct {
	PerPersonHours map[string]float64 `json:"details"`
	TotalHours     float64            `json:"total"`
	ActiveCount    int                `json:"activeCount"`
	Participants   []Participant      `json:"participants"`
}

// OperationRecord - запланированная операция контролируемого выжигания
type OperationRecord struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	LocationLabel  string          `json:"location_name" db:"location_name"`
	FuelModel      FuelModel       `json:"fuel_model" db:"fuel_model"`
	Weather        WeatherSnapshot `json:"weather_data" db:"-"`
	AreaGeoJSON    json.RawMessage `json:"area_geojson,omitempty" db:"-"`
	AIReportText   *string         `json:"ai_report,omitempty" db:"ai_report"`
	PersonnelHours PersonnelHours  `json:"personnel_hours" db:"-"`
	Status         OperationStatus `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	Synced         bool            `json:"synced" db:"synced"`
	OwnerID        *string         `json:"user_id,omitempty" db:"user_id"`
}

// NewOperationRecord создает запись с новым идентификатором и временем создания.
// Запись всегда начинает жизнь несинхронизированной.
func NewOperationRecord(name string, now time.Time) *OperationRecord {
	if name == "" {
		name = DefaultOperationName
	}
	return &OperationRecord{
		ID:        uuid.New(),
		Name:      name,
		Status:    StatusPlanning,
		CreatedAt: now.UTC(),
		Synced:    false,
	}
}

// HasArea проверяет, нарисован ли полигон операции
func (r *OperationRecord) HasArea() bool {
	return len(r.AreaGeoJSON) > 0 && string(r.AreaGeoJSON) != "null"
}

// IsOwnedBy - принадлежит ли запись указанному пользователю (или ничьей)
func (r *OperationRecord) IsOwnedBy(ownerID string) bool {
	return r.OwnerID == nil || *r.OwnerID == ownerID
}
