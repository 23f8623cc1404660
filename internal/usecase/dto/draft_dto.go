package dto

import "github.com/google/uuid"

// DraftFormRequest - поля формы черновика
type DraftFormRequest struct {
	Name      string       `json:"name" validate:"max=200"`
	Location  string       `json:"location" validate:"max=200"`
	FuelModel string       `json:"fuel_model" validate:"fuel_model"`
	Weather   WeatherInput `json:"weather"`
}

// DrawAreaRequest - новый полигон заменяет предыдущий целиком
type DrawAreaRequest struct {
	Vertices []PointInput `json:"vertices" validate:"required,min=3,dive"`
}

// DraftTeamRequest - выбранные сотрудники и часы по id
type DraftTeamRequest struct {
	SelectedIDs []uuid.UUID        `json:"selected_ids"`
	Hours       map[string]float64 `json:"hours" validate:"omitempty,dive,min=0,max=48"`
}
