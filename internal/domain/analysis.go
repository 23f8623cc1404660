package domain

// ChatRole - роль сообщения в диалоге с языковой моделью
type ChatRole string

const (
	ChatSystem    ChatRole = "system"
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// CompletionOptions - параметры генерации
type CompletionOptions struct {
	Temperature *float64
	MaxTokens   int
}

// RiskLevel - уровень риска упрощённой оценки
type RiskLevel string

const (
	RiskLow    RiskLevel = "Basso"
	RiskMedium RiskLevel = "Medio"
	RiskHigh   RiskLevel = "Alto"
)

// Analysis - текстовый отчёт для операции
type Analysis struct {
	Text      string    `json:"result"`
	Simulated bool      `json:"simulated"`
	Risk      RiskLevel `json:"risk,omitempty"`
}

// AssessRisk - эмпирическая оценка риска по температуре (°C), ветру (км/ч) и уклону (%)
func AssessRisk(temp, wind, slope float64) RiskLevel {
	switch {
	case temp > 30 || wind > 20 || (slope > 30 && wind > 10):
		return RiskHigh
	case temp > 25 || wind > 10 || slope > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}
