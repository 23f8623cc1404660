package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
)

// CompletionRepository - внешний сервис языковой модели
type CompletionRepository interface {
	// Enabled сообщает, настроен ли ключ доступа
	Enabled() bool

	Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error)
}
