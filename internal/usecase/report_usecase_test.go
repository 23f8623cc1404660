package usecase_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	apperrors "github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/usecase"
	"github.com/burn-ops-service/internal/usecase/dto"
)

func TestReportUseCase_RendersMarkdown(t *testing.T) {
	f := newSyncFixture(t)
	ops, personnel := newOperationUseCase(f)
	f.ids.identity = &domain.Identity{UserID: "user-1", FirstName: "Paolo", LastName: "Serra", Rank: "Ispettore"}

	anna, err := personnel.Add(f.ctx, dto.AddPersonRequest{Name: "Anna Piras", Role: "Torcista"})
	require.NoError(t, err)

	report := "Rischio **Basso**"
	outcome, err := ops.Create(f.ctx, dto.CreateOperationRequest{
		Name:        "Monte Arci",
		Location:    "Oristano",
		FuelModel:   "Pascolo",
		Weather:     dto.WeatherInput{Temperature: 18, Humidity: 55, WindSpeed: 6, Aspect: "Nord"},
		AreaGeoJSON: json.RawMessage(closedSquare),
		AIReport:    &report,
		Personnel:   []uuid.UUID{anna.ID},
		Hours:       map[string]float64{anna.ID.String(): 4.5},
	})
	require.NoError(t, err)

	uc := usecase.NewReportUseCase(ops, f.ids, zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, uc.Render(f.ctx, outcome.Record.ID, &buf))

	out := buf.String()
	assert.Contains(t, out, "# Report Operativo - Monte Arci")
	assert.Contains(t, out, "| Località | Oristano |")
	assert.Contains(t, out, "| Redatto da | Paolo Serra (Ispettore) |")
	assert.Contains(t, out, "Superficie:")
	assert.Contains(t, out, "Anna Piras (Torcista): 4.5 h")
	assert.Contains(t, out, "Rischio **Basso**")
	assert.Contains(t, out, "**L - Lookout:**")
	assert.Contains(t, out, "no (in attesa)")
}

func TestReportUseCase_WithoutAreaOrAnalysis(t *testing.T) {
	f := newSyncFixture(t)
	ops, _ := newOperationUseCase(f)
	f.ids.identity = nil

	outcome, err := ops.Create(f.ctx, dto.CreateOperationRequest{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, usecase.NewReportUseCase(ops, f.ids, zap.NewNop()).Render(f.ctx, outcome.Record.ID, &buf))

	out := buf.String()
	assert.Contains(t, out, domain.DefaultOperationName)
	assert.Contains(t, out, "Nessuna area disegnata.")
	assert.Contains(t, out, "Nessuna analisi allegata.")
	assert.NotContains(t, out, "Redatto da")
}

func TestReportUseCase_UnknownOperation(t *testing.T) {
	f := newSyncFixture(t)
	ops, _ := newOperationUseCase(f)

	var buf bytes.Buffer
	err := usecase.NewReportUseCase(ops, f.ids, zap.NewNop()).Render(f.ctx, uuid.New(), &buf)
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)
	assert.Zero(t, buf.Len())
}

func TestComputeGeometry(t *testing.T) {
	resp, err := usecase.ComputeGeometry(dto.GeometryStatsRequest{Vertices: []dto.PointInput{
		{Lat: 40.0, Lon: 9.0}, {Lat: 40.0, Lon: 9.01}, {Lat: 40.01, Lon: 9.01}, {Lat: 40.01, Lon: 9.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Stats.VertexCount)
	assert.Greater(t, resp.Stats.AreaHectares, 0.0)
	require.NotNil(t, resp.GeoJSON)
	assert.Len(t, resp.GeoJSON.Coordinates[0], 5)

	fromGeoJSON, err := usecase.ComputeGeometry(dto.GeometryStatsRequest{GeoJSON: json.RawMessage(closedSquare)})
	require.NoError(t, err)
	assert.Equal(t, resp.Stats, fromGeoJSON.Stats)

	_, err = usecase.ComputeGeometry(dto.GeometryStatsRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)

	_, err = usecase.ComputeGeometry(dto.GeometryStatsRequest{Vertices: []dto.PointInput{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)
}
