package events

import (
	"time"

	"advisory-events/internal/domain/readiness"
)

type Event struct {
	ID   string
	Name string
	Fund Fund

	Country string
	City    string

	// SelectedWeek es el lunes de la semana elegida; nil = sin fecha.
	SelectedWeek *time.Time
	Status       Status

	BudgetPlanned *float64
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
	LockedAt  *time.Time
	LiveAt    *time.Time
	ClosedAt  *time.Time
}

// Evaluation es el resultado del go/no-go para un evento en un instante dado.
type Evaluation struct {
	EventID     string
	Status      Status
	Checks      []readiness.Check
	Summary     readiness.Summary
	EvaluatedAt time.Time
}

// Dashboard es el tablero de un evento calculado en ComputedAt.
type Dashboard struct {
	EventID string
	Status  Status
	readiness.Dashboard
	ComputedAt time.Time
}
