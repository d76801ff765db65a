package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"advisory-events/internal/domain/events"
)

type eventRepo struct {
	mu   sync.RWMutex
	byID map[string]events.Event
}

func NewEventRepo() events.Repository {
	return &eventRepo{
		byID: make(map[string]events.Event),
	}
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return e, nil
}

func (r *eventRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]events.Event, 0)
	for _, e := range r.byID {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Fund != "" && e.Fund != filter.Fund {
			continue
		}
		out = append(out, e)
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update no toca el estado ni sus timestamps: eso pasa solo por UpdateStatus.
func (r *eventRepo) Update(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[e.ID]
	if !ok {
		return events.ErrNotFound
	}
	e.Status = cur.Status
	e.LockedAt = cur.LockedAt
	e.LiveAt = cur.LiveAt
	e.ClosedAt = cur.ClosedAt
	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) UpdateStatus(ctx context.Context, id string, from, to events.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return events.ErrNotFound
	}
	if e.Status != from {
		return events.ErrConflict
	}

	e.Status = to
	e.UpdatedAt = at
	switch to {
	case events.StatusLocked:
		e.LockedAt = &at
	case events.StatusLive:
		e.LiveAt = &at
	case events.StatusClosed:
		e.ClosedAt = &at
	}
	r.byID[id] = e
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
