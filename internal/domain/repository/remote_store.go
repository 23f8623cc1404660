package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
	"github.com/google/uuid"
)

// RemoteOperationRepository - авторитетное облачное хранилище операций.
// Все операции ограничены владельцем (аналог row-level security).
type RemoteOperationRepository interface {
	// Insert записывает операцию от имени ownerID. Повторная вставка того же id
	// не является ошибкой.
	Insert(ctx context.Context, ownerID string, rec *domain.OperationRecord) error

	// ListByOwner возвращает операции владельца, новые первыми
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.OperationRecord, error)

	// GetByID возвращает операцию владельца или domain.ErrNotFound
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.OperationRecord, error)

	// Delete удаляет операцию владельца
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}
