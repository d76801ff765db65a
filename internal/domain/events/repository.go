package events

import (
	"context"
	"time"
)

// Repository devuelve ErrNotFound si el evento no existe.
type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
	Update(ctx context.Context, e Event) error

	// UpdateStatus cambia el estado solo si el guardado sigue siendo from.
	// Devuelve ErrConflict si otro proceso ya lo movió.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error

	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status Status
	Fund   Fund
	Limit  int
}
