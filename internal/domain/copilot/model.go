package copilot

type Action string

const (
	ActionRSVPReminder Action = "generate-rsvp-reminder"
	ActionVisaLetter   Action = "generate-visa-letter"
	ActionDeckRequest  Action = "generate-deck-request"
	ActionRiskAnalysis Action = "generate-risk-analysis"
)

func (a Action) Valid() bool {
	switch a {
	case ActionRSVPReminder, ActionVisaLetter, ActionDeckRequest, ActionRiskAnalysis:
		return true
	}
	return false
}

type Language string

const (
	LanguageFR Language = "FR"
	LanguageEN Language = "EN"
)

// Request es lo que pide el operador. Context lleva los datos libres del borrador
// (nombre del participante, fechas...). Para risk-analysis con EventID, el contexto
// se completa desde el checklist go/no-go del evento.
type Request struct {
	Action   Action
	Language Language
	EventID  string
	Context  map[string]any
}

type Result struct {
	Content    string
	TokensUsed int
	Model      string
}

// Prompt es el pedido al modelo de lenguaje.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}
