package repository

import (
	"context"

	"github.com/burn-ops-service/internal/domain"
)

// IdentityProvider - шлюз сессии. Отсутствие или невалидность сессии
// означает анонимного пользователя, а не ошибку.
type IdentityProvider interface {
	// CurrentIdentity возвращает nil, если аутентифицированного пользователя нет
	CurrentIdentity(ctx context.Context) *domain.Identity

	// SignOut сбрасывает сессию
	SignOut(ctx context.Context) error
}

// TokenVerifier проверяет токен провайдера и превращает его в Identity
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}
