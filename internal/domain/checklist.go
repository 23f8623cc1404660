package domain

// LACESItem - пункт протокола безопасности LACES
type LACESItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ChecklistPhase - фаза операции со списком проверок
type ChecklistPhase struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Color string   `json:"color"`
	Items []string `json:"items"`
}

type Checklist struct {
	LACES  []LACESItem      `json:"laces"`
	Phases []ChecklistPhase `json:"phases"`
}

// SafetyChecklist возвращает статический протокол LACES и фазы операции
func SafetyChecklist() Checklist {
	return Checklist{
		LACES: []LACESItem{
			{ID: "L", Title: "Lookout", Description: "Vedetta sempre attiva e in posizione dominante.", Icon: "Eye"},
			{ID: "A", Title: "Anchor", Description: "Punto di ancoraggio sicuro e definito (barriera naturale o artificiale).", Icon: "Anchor"},
			{ID: "C", Title: "Communication", Description: "Comunicazioni radio chiare, testate e frequenze condivise.", Icon: "Radio"},
			{ID: "E", Title: "Escape", Description: "Vie di fuga note e pulite verso la zona di sicurezza.", Icon: "Route"},
			{ID: "S", Title: "Safety", Description: "Zone di sicurezza (oasi) accessibili rapidamente dal personale.", Icon: "ShieldCheck"},
		},
		Phases: []ChecklistPhase{
			{
				ID:    "briefing",
				Title: "1. BRIEFING PRE-OPERATIVO",
				Color: "blue",
				Items: []string{
					"Analisi meteo locale (vento, umidità) effettuata.",
					"Definizione e condivisione del Protocollo LACES con la squadra.",
					"Verifica DPI per tutto il personale (guanti, caschi, radio).",
					"Controllo carburante e attrezzature antincendio.",
				},
			},
			{
				ID:    "ignition",
				Title: "2. FASE DI ACCENSIONE",
				Color: "orange",
				Items: []string{
					"Esecuzione \"Test Fuoco\" in area sicura per verifica ROS.",
					"Comunicazione inizio operazioni confermata dalla Sala Operativa.",
					"Mantenimento costante dell'Anchor Point sicuro.",
					"Rispetto della direzione del vento (accensione dal basso).",
				},
			},
			{
				ID:    "mopup",
				Title: "3. BONIFICA E DEBRIEFING",
				Color: "green",
				Items: []string{
					"Bonifica completa del perimetro (acqua e mezzi manuali).",
					"Verifica assenza di \"fumaioli\" attivi nel raggio di 30m.",
					"Raffreddamento punti caldi interni.",
					"Debriefing finale con la squadra e chiusura operazione.",
				},
			},
		},
	}
}
