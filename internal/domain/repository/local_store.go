package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
	"github.com/google/uuid"
)

// LocalOperationRepository - встроенное хранилище операций, работающее без сети.
// Каждый вызов атомарен и durable к моменту возврата.
type LocalOperationRepository interface {
	// InsertOperation сохраняет запись с идентификатором, выданным вызывающим
	InsertOperation(ctx context.Context, rec *domain.OperationRecord) error

	// QueryUnsyncedOperations возвращает все записи с synced = false.
	// Нечитаемые строки сообщаются через *domain.UnreadableRecordsError.
	QueryUnsyncedOperations(ctx context.Context) ([]*domain.OperationRecord, error)

	// MarkSynced выставляет synced = true; для неизвестного id ничего не делает
	MarkSynced(ctx context.Context, id uuid.UUID) error

	// GetOperation возвращает запись или domain.ErrNotFound
	GetOperation(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error)

	// ListAllOperations возвращает все записи, новые первыми
	ListAllOperations(ctx context.Context) ([]*domain.OperationRecord, error)

	// DeleteOperation удаляет запись
	DeleteOperation(ctx context.Context, id uuid.UUID) error
}

// PersonnelRepository - локальный реестр сотрудников
type PersonnelRepository interface {
	InsertPerson(ctx context.Context, p *domain.PersonnelRecord) error
	GetPerson(ctx context.Context, id uuid.UUID) (*domain.PersonnelRecord, error)
	ListPersonnel(ctx context.Context) ([]*domain.PersonnelRecord, error)
	DeletePerson(ctx context.Context, id uuid.UUID) error
}

// SessionRepository хранит токен сессии между перезапусками
type SessionRepository interface {
	SaveToken(ctx context.Context, token string) error
	// LoadToken возвращает "" если сессии нет
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}
