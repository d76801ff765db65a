package logistics

import (
	"time"

	"advisory-events/internal/domain/readiness"
)

type Participant struct {
	ID      string
	EventID string

	Name         string
	Organization string
	Email        string
	Role         readiness.ParticipantRole
	Language     Language

	NeedsVisa  bool
	VisaStatus readiness.VisaStatus // vacío = null
	RSVPStatus readiness.RSVPStatus

	DietaryRestrictions string
	SpecialNeeds        string
	HotelAssigned       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Vendor struct {
	ID      string
	EventID string

	Category readiness.VendorCategory
	Name     string

	ContactName  string
	ContactEmail string
	ContactPhone string

	QuoteReceived  bool
	ContractSigned bool
	Status         VendorStatus
	Notes          string
}

// Workstream agrupa tareas de logística de un evento (uno por tipo).
type Workstream struct {
	ID      string
	EventID string
	Type    readiness.WorkstreamType
	OwnerID string
	Notes   string
}

type Task struct {
	ID           string
	EventID      string // denormalizado para listar por evento sin join
	WorkstreamID string

	Title       string
	Description string
	Deadline    *time.Time
	Status      readiness.TaskStatus
	Criticality readiness.Criticality // vacío = null
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkstreamWithTasks es la vista que consume la UI y el snapshot.
type WorkstreamWithTasks struct {
	Workstream
	Tasks []Task
}

type CompanyVisit struct {
	ID      string
	EventID string

	CompanyName     string
	PortfolioStatus PortfolioStatus
	Address         string
	MaxCapacity     int

	SpaceConfirmed     bool
	DeckReceived       bool
	RunOfShowValidated bool

	VisitDate *time.Time
	Notes     string
}

type BudgetLine struct {
	ID      string
	EventID string

	WorkstreamType readiness.WorkstreamType
	Description    string

	AmountPlanned   float64
	AmountCommitted *float64 // nil => 0
	AmountPaid      *float64
	Currency        string

	VendorID string
}
