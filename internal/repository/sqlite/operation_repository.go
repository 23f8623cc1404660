package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type operationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOperationRepository создает локальное хранилище операций
func NewOperationRepository(db *DB, logger *zap.Logger) repository.LocalOperationRepository {
	return &operationRepository{
		db:     db,
		logger: logger,
	}
}

// burnRow - строка таблицы burns; JSON-колонки хранятся как текст
type burnRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	LocationName   string         `db:"location_name"`
	FuelModel      string         `db:"fuel_model"`
	WeatherData    string         `db:"weather_data"`
	AreaGeoJSON    sql.NullString `db:"area_geojson"`
	AIReport       sql.NullString `db:"ai_report"`
	PersonnelHours string         `db:"personnel_hours"`
	Status         string         `db:"status"`
	CreatedAt      string         `db:"created_at"`
	Synced         int            `db:"synced"`
	UserID         sql.NullString `db:"user_id"`
}

const burnCols = `id, name, location_name, fuel_model, weather_data, area_geojson, ai_report,
	personnel_hours, status, created_at, synced, user_id`

func toBurnRow(rec *domain.OperationRecord) (*burnRow, error) {
	weather, err := json.Marshal(rec.Weather)
	if err != nil {
		return nil, fmt.Errorf("marshal weather: %w", err)
	}
	hours, err := json.Marshal(rec.PersonnelHours)
	if err != nil {
		return nil, fmt.Errorf("marshal personnel hours: %w", err)
	}

	row := &burnRow{
		ID:             rec.ID.String(),
		Name:           rec.Name,
		LocationName:   rec.LocationLabel,
		FuelModel:      string(rec.FuelModel),
		WeatherData:    string(weather),
		PersonnelHours: string(hours),
		Status:         string(rec.Status),
		CreatedAt:      formatTime(rec.CreatedAt),
	}
	if rec.HasArea() {
		row.AreaGeoJSON = sql.NullString{String: string(rec.AreaGeoJSON), Valid: true}
	}
	if rec.AIReportText != nil {
		row.AIReport = sql.NullString{String: *rec.AIReportText, Valid: true}
	}
	if rec.Synced {
		row.Synced = 1
	}
	if rec.OwnerID != nil {
		row.UserID = sql.NullString{String: *rec.OwnerID, Valid: true}
	}
	return row, nil
}

func (row *burnRow) toDomain() (*domain.OperationRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", row.ID, err)
	}
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec := &domain.OperationRecord{
		ID:            id,
		Name:          row.Name,
		LocationLabel: row.LocationName,
		FuelModel:     domain.FuelModel(row.FuelModel),
		Status:        domain.OperationStatus(row.Status),
		CreatedAt:     createdAt,
		Synced:        row.Synced != 0,
	}
	if err := json.Unmarshal([]byte(row.WeatherData), &rec.Weather); err != nil {
		return nil, fmt.Errorf("unmarshal weather: %w", err)
	}
	if err := json.Unmarshal([]byte(row.PersonnelHours), &rec.PersonnelHours); err != nil {
		return nil, fmt.Errorf("unmarshal personnel hours: %w", err)
	}
	if row.AreaGeoJSON.Valid {
		rec.AreaGeoJSON = json.RawMessage(row.AreaGeoJSON.String)
	}
	if row.AIReport.Valid {
		report := row.AIReport.String
		rec.AIReportText = &report
	}
	if row.UserID.Valid {
		owner := row.UserID.String
		rec.OwnerID = &owner
	}
	return rec, nil
}

// InsertOperation сохраняет запись целиком одним оператором
func (r *operationRepository) InsertOperation(ctx context.Context, rec *domain.OperationRecord) error {
	row, err := toBurnRow(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO burns (` + burnCols + `)
		VALUES (:id, :name, :location_name, :fuel_model, :weather_data, :area_geojson, :ai_report,
			:personnel_hours, :status, :created_at, :synced, :user_id)
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert operation %s: %w", rec.ID, domain.ErrDuplicateRecord)
		}
		r.logger.Error("failed to insert operation", zap.String("id", row.ID), zap.Error(err))
		return fmt.Errorf("insert operation: %w", err)
	}

	r.logger.Debug("operation stored locally",
		zap.String("id", row.ID),
		zap.Bool("synced", rec.Synced))
	return nil
}

// QueryUnsyncedOperations - единственный путь выборки несинхронизированных записей (idx_burns_synced).
// Битые строки возвращаются как *domain.UnreadableRecordsError вместе с прочитанными записями.
func (r *operationRepository) QueryUnsyncedOperations(ctx context.Context) ([]*domain.OperationRecord, error) {
	query := `SELECT ` + burnCols + ` FROM burns WHERE synced = 0 ORDER BY created_at ASC`
	return r.selectMany(ctx, query)
}

func (r *operationRepository) MarkSynced(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE burns SET synced = 1 WHERE id = ?`, id.String()); err != nil {
		r.logger.Error("failed to mark operation synced", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *operationRepository) GetOperation(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error) {
	var row burnRow
	query := `SELECT ` + burnCols + ` FROM burns WHERE id = ?`
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return row.toDomain()
}

func (r *operationRepository) ListAllOperations(ctx context.Context) ([]*domain.OperationRecord, error) {
	query := `SELECT ` + burnCols + ` FROM burns ORDER BY created_at DESC`
	return r.selectMany(ctx, query)
}

func (r *operationRepository) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM burns WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *operationRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]*domain.OperationRecord, error) {
	var rows []burnRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select operations: %w", err)
	}

	result := make([]*domain.OperationRecord, 0, len(rows))
	var unreadable []string
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			// Битая строка не блокирует остальные, но и не пропадает молча
			r.logger.Error("unreadable operation row", zap.String("id", rows[i].ID), zap.Error(err))
			unreadable = append(unreadable, rows[i].ID)
			continue
		}
		result = append(result, rec)
	}
	if len(unreadable) > 0 {
		return result, &domain.UnreadableRecordsError{IDs: unreadable}
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
