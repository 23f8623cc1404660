package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/geo"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// DraftUseCase - черновик операции, который оператор заполняет по шагам
// (форма, полигон, команда, анализ) до сохранения.
type DraftUseCase struct {
	mu    sync.Mutex
	draft domain.BurnDraft

	coordinator *SyncCoordinator
	personnel   *PersonnelUseCase
	analysis    *AnalysisUseCase
	logger      *zap.Logger
	now         func() time.Time
}

func NewDraftUseCase(
	coordinator *SyncCoordinator,
	personnel *PersonnelUseCase,
	analysis *AnalysisUseCase,
	logger *zap.Logger,
) *DraftUseCase {
	return &DraftUseCase{
		draft:       domain.NewBurnDraft(),
		coordinator: coordinator,
		personnel:   personnel,
		analysis:    analysis,
		logger:      logger,
		now:         time.Now,
	}
}

// Get возвращает копию текущего черновика
func (uc *DraftUseCase) Get() domain.BurnDraft {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return cloneDraft(uc.draft)
}

// UpdateForm заменяет поля формы. Отчёт, сгенерированный по другой погоде, сбрасывается.
func (uc *DraftUseCase) UpdateForm(req dto.DraftFormRequest) domain.BurnDraft {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.draft.Form = domain.BurnForm{
		Name:          req.Name,
		LocationLabel: req.Location,
		FuelModel:     domain.FuelModel(req.FuelModel),
		Weather:       req.Weather.ToDomain(),
	}
	if uc.draft.ReportWeather != nil && *uc.draft.ReportWeather != uc.draft.Form.Weather {
		uc.logger.Info("Weather changed, dropping draft report")
		uc.draft.Report = nil
		uc.draft.ReportWeather = nil
	}
	uc.touch()
	return cloneDraft(uc.draft)
}

// DrawArea заменяет нарисованный полигон целиком: у черновика не больше одной фигуры
func (uc *DraftUseCase) DrawArea(vertices []geo.Point) (domain.BurnDraft, error) {
	stats := geo.Compute(vertices)
	if stats.VertexCount < 3 {
		return domain.BurnDraft{}, errors.ErrInvalidGeometry
	}
	// Кольцо хранится в том виде, в каком его посчитал движок
	ring := geo.ToGeoJSON(vertices).Ring()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.draft.Area = &domain.DrawnArea{
		Vertices: ring,
		Stats:    stats,
		DrawnAt:  uc.now().UTC(),
	}
	uc.touch()
	return cloneDraft(uc.draft), nil
}

func (uc *DraftUseCase) ClearArea() domain.BurnDraft {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.draft.Area = nil
	uc.touch()
	return cloneDraft(uc.draft)
}

// SetTeam - выбранные сотрудники и часы; часы невыбранных сохраняются, но не считаются
func (uc *DraftUseCase) SetTeam(req dto.DraftTeamRequest) (domain.BurnDraft, error) {
	hours := make(map[uuid.UUID]float64, len(req.Hours))
	for k, v := range req.Hours {
		id, err := uuid.Parse(k)
		if err != nil {
			return domain.BurnDraft{}, errors.ErrInvalidRequest.WithMessage("Invalid personnel id in hours")
		}
		hours[id] = v
	}

	selected := make([]uuid.UUID, 0, len(req.SelectedIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.SelectedIDs))
	for _, id := range req.SelectedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.draft.Team = domain.TeamSelection{SelectedIDs: selected, Hours: hours}
	uc.touch()
	return cloneDraft(uc.draft), nil
}

// SetReport прикрепляет отчёт, если погода формы совпадает с той, по которой он сгенерирован
func (uc *DraftUseCase) SetReport(text string, weather domain.WeatherSnapshot) (domain.BurnDraft, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.draft.Form.Weather != weather {
		return cloneDraft(uc.draft), errors.ErrStaleReport
	}
	uc.draft.Report = &text
	uc.draft.ReportWeather = &weather
	uc.touch()
	return cloneDraft(uc.draft), nil
}

func (uc *DraftUseCase) Reset() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.draft = domain.NewBurnDraft()
}

// Analyze запускает анализ по полям формы и прикрепляет результат к черновику
func (uc *DraftUseCase) Analyze(ctx context.Context) (*domain.Analysis, error) {
	form := uc.Get().Form

	result, err := uc.analysis.Analyze(ctx, dto.AnalysisRequest{
		Location:     form.LocationLabel,
		Temperature:  form.Weather.Temperature,
		Humidity:     form.Weather.Humidity,
		WindSpeed:    form.Weather.WindSpeed,
		SlopePercent: form.Weather.SlopePercent,
		FuelModel:    string(form.FuelModel),
		FuelMoisture: form.Weather.FuelMoisture,
		Aspect:       form.Weather.Aspect,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.SetReport(result.Text, form.Weather); err != nil {
		return nil, err
	}
	return result, nil
}

// Commit превращает черновик в запись и передаёт её координатору.
// Черновик сбрасывается только после успешного сохранения.
func (uc *DraftUseCase) Commit(ctx context.Context) (*domain.SaveOutcome, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	rec := domain.NewOperationRecord(uc.draft.Form.Name, uc.now())
	rec.LocationLabel = uc.draft.Form.LocationLabel
	rec.FuelModel = uc.draft.Form.FuelModel
	rec.Weather = uc.draft.Form.Weather
	if uc.draft.Report != nil && uc.draft.ReportWeather != nil && *uc.draft.ReportWeather == rec.Weather {
		report := *uc.draft.Report
		rec.AIReportText = &report
	}

	if uc.draft.Area != nil {
		area, err := json.Marshal(geo.ToGeoJSON(uc.draft.Area.Vertices))
		if err != nil {
			return nil, errors.ErrInvalidGeometry
		}
		rec.AreaGeoJSON = area
	}

	people, err := uc.personnel.snapshot(ctx)
	if err != nil {
		uc.logger.Error("Failed to read personnel registry", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	rec.PersonnelHours = domain.BuildPersonnelHours(people, uc.draft.Team.SelectedIDs, uc.draft.Team.Hours)

	outcome, err := uc.coordinator.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	uc.draft = domain.NewBurnDraft()
	return outcome, nil
}

func (uc *DraftUseCase) touch() {
	uc.draft.UpdatedAt = uc.now().UTC()
}

func cloneDraft(d domain.BurnDraft) domain.BurnDraft {
	out := d
	if d.Area != nil {
		area := *d.Area
		area.Vertices = append([]geo.Point(nil), d.Area.Vertices...)
		out.Area = &area
	}
	out.Team.SelectedIDs = append([]uuid.UUID{}, d.Team.SelectedIDs...)
	out.Team.Hours = make(map[uuid.UUID]float64, len(d.Team.Hours))
	for k, v := range d.Team.Hours {
		out.Team.Hours[k] = v
	}
	if d.Report != nil {
		report := *d.Report
		out.Report = &report
	}
	if d.ReportWeather != nil {
		w := *d.ReportWeather
		out.ReportWeather = &w
	}
	return out
}
