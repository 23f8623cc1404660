package testhelpers

import (
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewOperationRepositoryForTest creates a remote operation repository with test database and logger
func NewOperationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RemoteOperationRepository {
	return postgres.NewOperationRepository(NewDBForTest(db, logger), logger)
}
