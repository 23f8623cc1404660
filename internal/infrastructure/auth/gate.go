package auth

import (
	"context"
	"fmt"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Gate - шлюз сессии устройства. Токен хранится в локальной базе, поэтому
// сессия переживает перезапуск и работает без сети.
type Gate struct {
	sessions repository.SessionRepository
	verifier repository.TokenVerifier
	logger   *zap.Logger
}

func NewGate(sessions repository.SessionRepository, verifier repository.TokenVerifier, logger *zap.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		verifier: verifier,
		logger:   logger,
	}
}

var _ repository.IdentityProvider = (*Gate)(nil)

// CurrentIdentity возвращает пользователя сессии или nil.
// Невалидный или просроченный токен удаляется: это принудительный выход.
func (g *Gate) CurrentIdentity(ctx context.Context) *domain.Identity {
	token, err := g.sessions.LoadToken(ctx)
	if err != nil {
		g.logger.Warn("failed to load session, treating as anonymous", zap.Error(err))
		return nil
	}
	if token == "" {
		return nil
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.Info("stale session token, signing out", zap.Error(err))
		if clearErr := g.sessions.ClearToken(ctx); clearErr != nil {
			g.logger.Warn("failed to clear stale session", zap.Error(clearErr))
		}
		return nil
	}
	return identity
}

// SignIn проверяет токен провайдера и сохраняет его как текущую сессию
func (g *Gate) SignIn(ctx context.Context, token string) (*domain.Identity, error) {
	identity, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if err := g.sessions.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	g.logger.Info("signed in", zap.String("user_id", identity.UserID))
	return identity, nil
}

func (g *Gate) SignOut(ctx context.Context) error {
	if err := g.sessions.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	g.logger.Info("signed out")
	return nil
}
