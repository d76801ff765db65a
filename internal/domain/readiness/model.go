package readiness

import "time"

// Snapshot es la foto de solo lectura de un evento que consume el catálogo.
// Colecciones nil se tratan como vacías; no se valida que los hijos
// pertenezcan al mismo EventID (lo filtra quien arma el snapshot).
type Snapshot struct {
	EventID       string     `json:"event_id"`
	SelectedWeek  *time.Time `json:"selected_week,omitempty"`
	BudgetPlanned *float64   `json:"budget_planned,omitempty"`

	Participants  []Participant  `json:"participants"`
	Vendors       []Vendor       `json:"vendors"`
	Workstreams   []Workstream   `json:"workstreams"`
	CompanyVisits []CompanyVisit `json:"company_visits"`
	BudgetLines   []BudgetLine   `json:"budget_lines"`
}

type Participant struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       ParticipantRole `json:"role"`
	NeedsVisa  bool            `json:"needs_visa"`
	VisaStatus VisaStatus      `json:"visa_status,omitempty"`
	RSVPStatus RSVPStatus      `json:"rsvp_status"`
}

type Vendor struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Category       VendorCategory `json:"category"`
	ContractSigned bool           `json:"contract_signed"`
}

type Workstream struct {
	ID    string         `json:"id"`
	Type  WorkstreamType `json:"type"`
	Tasks []Task         `json:"tasks"`
}

type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Status      TaskStatus  `json:"status"`
	Criticality Criticality `json:"criticality,omitempty"`
}

type CompanyVisit struct {
	ID                 string `json:"id"`
	CompanyName        string `json:"company_name"`
	SpaceConfirmed     bool   `json:"space_confirmed"`
	DeckReceived       bool   `json:"deck_received"`
	RunOfShowValidated bool   `json:"run_of_show_validated"`
}

// Ready: espacio confirmado, deck recibido y run of show validado.
func (v CompanyVisit) Ready() bool {
	return v.SpaceConfirmed && v.DeckReceived && v.RunOfShowValidated
}

type BudgetLine struct {
	ID              string   `json:"id"`
	AmountCommitted *float64 `json:"amount_committed,omitempty"`
	AmountPaid      *float64 `json:"amount_paid,omitempty"`
}

// Check es el resultado de una verificación. Se recalcula en cada evaluación
// y no se persiste aquí (audit puede guardarlo como cambio).
type Check struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Passed      bool     `json:"passed"`
	Details     string   `json:"details,omitempty"`
}

type Summary struct {
	BlockersPassed int  `json:"blockers_passed"`
	BlockersTotal  int  `json:"blockers_total"`
	WarningsPassed int  `json:"warnings_passed"`
	WarningsTotal  int  `json:"warnings_total"`
	CanGoLive      bool `json:"can_go_live"`
}
