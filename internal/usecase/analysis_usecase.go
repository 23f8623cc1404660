package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/usecase/dto"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1500
)

const instructorPrompt = `Sei un esperto istruttore GAUF (Gruppo Analisi Uso Fuoco) del Corpo Forestale della Sardegna.

COMPETENZE:
- Fuoco prescritto e Campbell Prediction System (CPS)
- Comportamento del fuoco (ROS, lunghezza fiamma, intensità)
- Allineamento forze (pendenza, vento, esposizione solare)
- Sicurezza operativa (LACES - Lookouts, Anchor points, Communications, Escape routes, Safety zones)
- Meteorologia operativa (umidità, temperatura, vento)
- Modelli di combustibile mediterraneo

ISTRUZIONI:
- Rispondi in italiano tecnico ma accessibile
- Fornisci esempi pratici e scenari reali della Sardegna
- Cita sempre principi tecnici quando rilevante
- Se non sei sicuro di qualcosa, dillo chiaramente
- Usa markdown per formattazione (elenchi puntati, grassetto, titoli)
- Priorità assoluta: SICUREZZA degli operatori

FORMATO RISPOSTE:
- Per calcoli: mostra formule e passaggi
- Per scenari: descrivi condizioni e decisioni operative
- Per concetti teorici: spiega + esempio pratico concreto
- Sii conciso ma completo`

// AnalysisUseCase - тактический анализ CPS и учебный чат поверх языковой модели
type AnalysisUseCase struct {
	completion repository.CompletionRepository
	logger     *zap.Logger
}

func NewAnalysisUseCase(completion repository.CompletionRepository, logger *zap.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		completion: completion,
		logger:     logger,
	}
}

// Analyze возвращает отчёт модели или, если ключ не настроен, детерминированную симуляцию
func (uc *AnalysisUseCase) Analyze(ctx context.Context, req dto.AnalysisRequest) (*domain.Analysis, error) {
	risk := domain.AssessRisk(req.Temperature, req.WindSpeed, req.SlopePercent)

	if !uc.completion.Enabled() {
		uc.logger.Debug("Completion service not configured, using simulated analysis")
		return &domain.Analysis{
			Text:      simulatedAnalysis(req, risk),
			Simulated: true,
			Risk:      risk,
		}, nil
	}

	text, err := uc.completion.Complete(ctx, []domain.ChatMessage{
		{Role: domain.ChatUser, Content: cpsPrompt(req)},
	}, domain.CompletionOptions{})
	if err != nil {
		uc.logger.Warn("Analysis request failed", zap.Error(err))
		return nil, errors.ErrAnalysisUnavailable
	}
	if strings.TrimSpace(text) == "" {
		text = "Nessuna risposta generata."
	}

	return &domain.Analysis{Text: text}, nil
}

// Chat - тренажёр: системный промпт инструктора плюс история диалога
func (uc *AnalysisUseCase) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if !uc.completion.Enabled() {
		return nil, errors.ErrAnalysisUnavailable.WithMessage(
			"API non configurata. Configura GROQ_API_KEY per abilitare il Training Simulator.")
	}

	messages := make([]domain.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.ChatSystem, Content: instructorPrompt})
	for _, m := range req.Messages {
		messages = append(messages, domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content})
	}

	temperature := chatTemperature
	text, err := uc.completion.Complete(ctx, messages, domain.CompletionOptions{
		Temperature: &temperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		uc.logger.Warn("Chat request failed", zap.Error(err))
		return nil, errors.ErrAnalysisUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrAnalysisUnavailable.WithMessage("Nessuna risposta dall'AI")
	}

	return &dto.ChatResponse{Message: text}, nil
}

func cpsPrompt(req dto.AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("Agisci come un esperto GAUF (Gruppo Analisi Uso Fuoco) della Sardegna.\n")
	b.WriteString("Esegui un'analisi tattica basata sul **Campbell Prediction System (CPS)**.\n\n")
	b.WriteString("DATI AMBIENTALI:\n")
	fmt.Fprintf(&b, "- Località: %s\n", req.Location)
	fmt.Fprintf(&b, "- Temperatura: %g°C\n", req.Temperature)
	fmt.Fprintf(&b, "- Umidità Relativa Aria: %g%%\n", req.Humidity)
	fmt.Fprintf(&b, "- Vento: %g km/h\n", req.WindSpeed)
	fmt.Fprintf(&b, "- Pendenza: %g%%\n", req.SlopePercent)
	fmt.Fprintf(&b, "- Modello Combustibile: %s\n", req.FuelModel)
	fmt.Fprintf(&b, "- Umidità Combustibile (Fine Dead Fuel): %g%%\n", req.FuelMoisture)
	fmt.Fprintf(&b, "- Esposizione (Aspect): %s\n\n", req.Aspect)
	b.WriteString("RICHIESTA:\n")
	b.WriteString("1. Valuta l'**Allineamento delle Forze** (Pendenza, Vento, Preriscaldamento Solare).\n")
	fmt.Fprintf(&b, "2. Determina se l'esposizione (%s) è \"In Allineamento\" o \"Fuori Allineamento\" con il momento della giornata.\n", req.Aspect)
	b.WriteString("3. Stima il Comportamento del Fuoco (ROS stimato e Lunghezza Fiamma).\n")
	b.WriteString("4. Fornisci la Prescrizione Operativa di sicurezza base LACES.\n\n")
	b.WriteString("Fornisci: Livello di Rischio (Basso, Medio, Alto, Estremo), analisi tecnica sintetica, prescrizione operativa.\n")
	b.WriteString("Rispondi in italiano tecnico ma chiaro. Formatta la risposta in Markdown leggero.")
	return b.String()
}

func simulatedAnalysis(req dto.AnalysisRequest, risk domain.RiskLevel) string {
	ros, flame := "Lento (< 1 m/min)", "Bassa (< 0.5 m)"
	switch risk {
	case domain.RiskHigh:
		ros, flame = "Veloce (3-10 m/min)", "Alta (> 1.5 m)"
	case domain.RiskMedium:
		ros, flame = "Moderato (1-3 m/min)", "Media (0.5 - 1.5 m)"
	}

	alignment := "Non critico"
	if req.WindSpeed > 10 && req.SlopePercent > 10 {
		alignment = "Allineati (Fattore critico)"
	}

	var b strings.Builder
	b.WriteString("### Analisi Simulata (Modalità Offline)\n\n")
	b.WriteString("**Nota:** Questa è un'analisi automatica basata su regole deterministiche (AI non configurata).\n\n")
	fmt.Fprintf(&b, "#### 1. Livello di Rischio: **%s**\n\n", risk)
	b.WriteString("#### 2. Allineamento delle Forze\n")
	fmt.Fprintf(&b, "* **Vento/Pendenza:** %s\n", alignment)
	fmt.Fprintf(&b, "* **ROS (Velocità):** %s\n", ros)
	fmt.Fprintf(&b, "* **Lunghezza Fiamma:** %s\n\n", flame)
	b.WriteString("#### 3. Prescrizione Operativa (LACES)\n")
	b.WriteString("* **L (Lookout):** Mantenere vedetta costante.\n")
	b.WriteString("* **A (Anchor Point):** Partire sempre da zona sicura (es. strada, zona bruciata).\n")
	b.WriteString("* **C (Communications):** Radio test prima dell'accensione.\n")
	b.WriteString("* **E (Escape Routes):** Identificare vie di fuga per ogni operatore.\n")
	b.WriteString("* **S (Safety Zones):** Zone sicure accessibili in meno di 2 minuti.\n\n")
	b.WriteString("_Configura una API Key per ottenere analisi AI dettagliate._")
	return b.String()
}
