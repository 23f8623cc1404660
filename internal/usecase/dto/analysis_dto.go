package dto

// AnalysisRequest - условия для тактического анализа CPS
type AnalysisRequest struct {
	Location     string  `json:"location" validate:"max=200"`
	Temperature  float64 `json:"temp"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind"`
	SlopePercent float64 `json:"slope"`
	FuelModel    string  `json:"fuel_model" validate:"fuel_model"`
	FuelMoisture float64 `json:"fuel_moisture"`
	Aspect       string  `json:"aspect" validate:"max=16"`
}

// ChatRequest - история диалога тренажёра
type ChatRequest struct {
	Messages []ChatMessageInput `json:"messages" validate:"required,min=1,max=50,dive"`
}

type ChatMessageInput struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=8000"`
}

type ChatResponse struct {
	Message string `json:"message"`
}
