package usecase

import (
	"context"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/geo"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006 15:04") },
}).Parse(`# Report Operativo - {{.Record.Name}}

| Campo | Valore |
|---|---|
| Località | {{with .Record.LocationLabel}}{{.}}{{else}}-{{end}} |
| Stato | {{.Record.Status}} |
| Data | {{date .Record.CreatedAt}} |
| Modello combustibile | {{with .Record.FuelModel}}{{.}}{{else}}-{{end}} |
| Sincronizzato | {{if .Record.Synced}}sì{{else}}no (in attesa){{end}} |
{{- with .Author}}
| Redatto da | {{.}}{{with $.Rank}} ({{.}}){{end}} |
{{- end}}

## Condizioni meteo
- Temperatura: {{.Record.Weather.Temperature}} °C
- Umidità relativa: {{.Record.Weather.Humidity}} %
- Vento: {{.Record.Weather.WindSpeed}} km/h
- Pendenza: {{.Record.Weather.SlopePercent}} %
- Umidità combustibile: {{.Record.Weather.FuelMoisture}} %
- Esposizione: {{with .Record.Weather.Aspect}}{{.}}{{else}}-{{end}}

## Area
{{if .Area -}}
- Superficie: {{printf "%.2f" .Area.AreaHectares}} ha
- Perimetro: {{.Area.PerimeterMeters}} m
- Centro: {{.Area.CenterLabel}}
- Vertici: {{.Area.VertexCount}}
{{- else -}}
Nessuna area disegnata.
{{- end}}

## Personale
Ore totali: {{hours .Record.PersonnelHours.TotalHours}} - operatori attivi: {{.Record.PersonnelHours.ActiveCount}}
{{range .Crew}}
- {{.Name}} ({{.Role}}): {{hours .Hours}} h
{{- end}}

## Analisi
{{with .Record.AIReportText}}{{.}}{{else}}Nessuna analisi allegata.{{end}}

## Protocollo LACES
{{range .Checklist.LACES}}
- **{{.ID}} - {{.Title}}:** {{.Description}}
{{- end}}
`))

type crewLine struct {
	Name  string
	Role  domain.PersonnelRole
	Hours float64
}

type reportView struct {
	Record    *domain.OperationRecord
	Area      *geo.Stats
	Crew      []crewLine
	Author    string
	Rank      string
	Checklist domain.Checklist
}

// ReportUseCase собирает Markdown-отчёт по сохранённой операции
type ReportUseCase struct {
	operations *OperationUseCase
	identity   repository.IdentityProvider
	logger     *zap.Logger
}

func NewReportUseCase(operations *OperationUseCase, identity repository.IdentityProvider, logger *zap.Logger) *ReportUseCase {
	return &ReportUseCase{
		operations: operations,
		identity:   identity,
		logger:     logger,
	}
}

// Render пишет отчёт операции id в w
func (uc *ReportUseCase) Render(ctx context.Context, id uuid.UUID, w io.Writer) error {
	rec, err := uc.operations.Get(ctx, id)
	if err != nil {
		return err
	}

	view := buildReportView(rec, uc.identity.CurrentIdentity(ctx))
	if err := reportTemplate.Execute(w, view); err != nil {
		uc.logger.Error("Failed to render report", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func buildReportView(rec *domain.OperationRecord, author *domain.Identity) reportView {
	view := reportView{
		Record:    rec,
		Checklist: domain.SafetyChecklist(),
	}
	if author != nil {
		view.Author = author.DisplayName()
		view.Rank = author.Rank
	}

	if rec.HasArea() {
		// Повреждённая геометрия не должна ломать отчёт
		if ring, err := geo.FromGeoJSON(rec.AreaGeoJSON); err == nil {
			stats := geo.Compute(ring)
			view.Area = &stats
		}
	}

	for _, p := range rec.PersonnelHours.Participants {
		view.Crew = append(view.Crew, crewLine{
			Name:  p.Name,
			Role:  p.Role,
			Hours: rec.PersonnelHours.PerPersonHours[p.ID.String()],
		})
	}
	return view
}
