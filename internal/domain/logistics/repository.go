package logistics

import (
	"context"
	"time"

	"advisory-events/internal/domain/readiness"
)

// Repository devuelve ErrNotFound cuando el registro no existe; cualquier
// otro error se trata como fallo de almacenamiento.
type Repository interface {
	CreateParticipant(ctx context.Context, p Participant) error
	UpdateParticipant(ctx context.Context, p Participant) error
	GetParticipant(ctx context.Context, id string) (Participant, error)
	ListParticipants(ctx context.Context, eventID string) ([]Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
	// UpdateParticipantsRSVP es todo o nada: ErrNotFound si algún ID no es del evento.
	UpdateParticipantsRSVP(ctx context.Context, eventID string, ids []string, status readiness.RSVPStatus, at time.Time) error

	CreateVendor(ctx context.Context, v Vendor) error
	UpdateVendor(ctx context.Context, v Vendor) error
	GetVendor(ctx context.Context, id string) (Vendor, error)
	ListVendors(ctx context.Context, eventID string) ([]Vendor, error)

	CreateWorkstreams(ctx context.Context, ws []Workstream) error
	GetWorkstream(ctx context.Context, id string) (Workstream, error)
	ListWorkstreams(ctx context.Context, eventID string) ([]Workstream, error)

	CreateTask(ctx context.Context, t Task) error
	UpdateTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasksByEvent(ctx context.Context, eventID string) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error
	UpdateTasksStatus(ctx context.Context, eventID string, ids []string, status readiness.TaskStatus, at time.Time) error

	CreateCompanyVisit(ctx context.Context, v CompanyVisit) error
	UpdateCompanyVisit(ctx context.Context, v CompanyVisit) error
	GetCompanyVisit(ctx context.Context, id string) (CompanyVisit, error)
	ListCompanyVisits(ctx context.Context, eventID string) ([]CompanyVisit, error)

	CreateBudgetLine(ctx context.Context, b BudgetLine) error
	ListBudgetLines(ctx context.Context, eventID string) ([]BudgetLine, error)

	// DeleteEventData borra todas las colecciones de un evento.
	DeleteEventData(ctx context.Context, eventID string) error
}
