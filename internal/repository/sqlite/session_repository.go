package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/burn-ops-service/internal/domain/repository"
	"go.uber.org/zap"
)

const sessionKey = "current"

type sessionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionRepository хранит единственный токен сессии устройства
func NewSessionRepository(db *DB, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) SaveToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`, sessionKey, token, formatTime(time.Now()))
	if err != nil {
		r.logger.Error("failed to persist session", zap.Error(err))
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (r *sessionRepository) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := r.db.GetContext(ctx, &token, `SELECT token FROM session WHERE key = ?`, sessionKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load session token: %w", err)
	}
	return token, nil
}

func (r *sessionRepository) ClearToken(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, sessionKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
