package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type operationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOperationRepository создает клиент удалённого хранилища операций
func NewOperationRepository(db *DB, logger *zap.Logger) repository.RemoteOperationRepository {
	return &operationRepository{
		db:     db,
		logger: logger,
	}
}

type burnRow struct {
	ID             uuid.UUID      `db:"id"`
	UserID         string         `db:"user_id"`
	Name           string         `db:"name"`
	Status         string         `db:"status"`
	LocationName   string         `db:"location_name"`
	FuelModel      string         `db:"fuel_model"`
	WeatherData    []byte         `db:"weather_data"`
	AreaGeoJSON    []byte         `db:"area_geojson"`
	AIReport       sql.NullString `db:"ai_report"`
	PersonnelHours []byte         `db:"personnel_hours"`
	CreatedAt      time.Time      `db:"created_at"`
}

const burnCols = `id, user_id, name, status, location_name, fuel_model, weather_data,
	area_geojson, ai_report, personnel_hours, created_at`

func (row *burnRow) toDomain() (*domain.OperationRecord, error) {
	owner := row.UserID
	rec := &domain.OperationRecord{
		ID:            row.ID,
		Name:          row.Name,
		LocationLabel: row.LocationName,
		FuelModel:     domain.FuelModel(row.FuelModel),
		Status:        domain.OperationStatus(row.Status),
		CreatedAt:     row.CreatedAt.UTC(),
		Synced:        true,
		OwnerID:       &owner,
	}
	if len(row.WeatherData) > 0 {
		if err := json.Unmarshal(row.WeatherData, &rec.Weather); err != nil {
			return nil, fmt.Errorf("unmarshal weather: %w", err)
		}
	}
	if len(row.PersonnelHours) > 0 {
		if err := json.Unmarshal(row.PersonnelHours, &rec.PersonnelHours); err != nil {
			return nil, fmt.Errorf("unmarshal personnel hours: %w", err)
		}
	}
	if len(row.AreaGeoJSON) > 0 {
		rec.AreaGeoJSON = json.RawMessage(row.AreaGeoJSON)
	}
	if row.AIReport.Valid {
		report := row.AIReport.String
		rec.AIReportText = &report
	}
	return rec, nil
}

// Insert записывает операцию от имени владельца. Повтор того же id - no-op,
// поэтому перезапуск прерванной синхронизации не создаёт дубликатов.
func (r *operationRepository) Insert(ctx context.Context, ownerID string, rec *domain.OperationRecord) error {
	if ownerID == "" {
		return domain.ErrNoIdentity
	}

	weather, err := json.Marshal(rec.Weather)
	if err != nil {
		return fmt.Errorf("marshal weather: %w", err)
	}
	hours, err := json.Marshal(rec.PersonnelHours)
	if err != nil {
		return fmt.Errorf("marshal personnel hours: %w", err)
	}
	var area interface{}
	if rec.HasArea() {
		area = string(rec.AreaGeoJSON)
	}
	var report interface{}
	if rec.AIReportText != nil {
		report = *rec.AIReportText
	}

	query := `
		INSERT INTO burns (` + burnCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9, $10::jsonb, $11)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, ownerID, rec.Name, string(rec.Status), rec.LocationLabel, string(rec.FuelModel),
		string(weather), area, report, string(hours), rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert remote operation",
			zap.String("id", rec.ID.String()),
			zap.Error(err))
		return fmt.Errorf("insert remote operation: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		r.logger.Debug("remote operation already exists", zap.String("id", rec.ID.String()))
	}
	return nil
}

func (r *operationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.OperationRecord, error) {
	var rows []burnRow
	query := `SELECT ` + burnCols + ` FROM burns WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		r.logger.Error("failed to list remote operations", zap.Error(err))
		return nil, fmt.Errorf("list remote operations: %w", err)
	}

	result := make([]*domain.OperationRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			r.logger.Warn("skipping unreadable remote row", zap.String("id", rows[i].ID.String()), zap.Error(err))
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (r *operationRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.OperationRecord, error) {
	var row burnRow
	query := `SELECT ` + burnCols + ` FROM burns WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get remote operation: %w", err)
	}
	return row.toDomain()
}

func (r *operationRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM burns WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete remote operation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
