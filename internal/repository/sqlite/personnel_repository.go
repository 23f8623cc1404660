package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type personnelRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPersonnelRepository создает реестр сотрудников
func NewPersonnelRepository(db *DB, logger *zap.Logger) repository.PersonnelRepository {
	return &personnelRepository{
		db:     db,
		logger: logger,
	}
}

type personRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Role      string `db:"role"`
	CreatedAt string `db:"created_at"`
}

func (row *personRow) toDomain() (*domain.PersonnelRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", row.ID, err)
	}
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.PersonnelRecord{
		ID:        id,
		Name:      row.Name,
		Role:      domain.PersonnelRole(row.Role),
		CreatedAt: createdAt,
	}, nil
}

func (r *personnelRepository) InsertPerson(ctx context.Context, p *domain.PersonnelRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO personnel (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		p.ID.String(), p.Name, string(p.Role), formatTime(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert person %s: %w", p.ID, domain.ErrDuplicateRecord)
		}
		r.logger.Error("failed to insert person", zap.String("id", p.ID.String()), zap.Error(err))
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *personnelRepository) GetPerson(ctx context.Context, id uuid.UUID) (*domain.PersonnelRecord, error) {
	var row personRow
	err := r.db.GetContext(ctx, &row, `SELECT id, name, role, created_at FROM personnel WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return row.toDomain()
}

// ListPersonnel возвращает сотрудников в порядке добавления
func (r *personnelRepository) ListPersonnel(ctx context.Context) ([]*domain.PersonnelRecord, error) {
	var rows []personRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name, role, created_at FROM personnel ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}

	result := make([]*domain.PersonnelRecord, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			r.logger.Warn("skipping unreadable personnel row", zap.String("id", rows[i].ID), zap.Error(err))
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *personnelRepository) DeletePerson(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personnel WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
