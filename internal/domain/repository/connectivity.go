package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
)

// ConnectivitySignal - наблюдаемое состояние сети
type ConnectivitySignal interface {
	IsOnline() bool

	// Subscribe возвращает канал переходов и функцию отписки
	Subscribe() (<-chan domain.ConnectivityEvent, func())
}

// Prober проверяет доступность удалённого хранилища
type Prober interface {
	Health(ctx context.Context) error
}
