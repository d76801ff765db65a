package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"advisory-events/internal/domain/audit"
)

// auditRepo es append-only: no hay Update ni Delete.
type auditRepo struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepo() audit.Repository {
	return &auditRepo{}
}

func (r *auditRepo) Append(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("audit entry id required")
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Recorremos al revés para que, a igual timestamp, quede primero el último insertado.
	out := make([]audit.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].EventID == eventID {
			out = append(out, r.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
