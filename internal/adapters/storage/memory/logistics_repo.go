package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"advisory-events/internal/domain/logistics"
	"advisory-events/internal/domain/readiness"
)

// logisticsRepo guarda todas las colecciones operativas de un evento.
// Las listas se devuelven en orden de inserción.
type logisticsRepo struct {
	mu sync.RWMutex

	participants map[string]logistics.Participant
	vendors      map[string]logistics.Vendor
	workstreams  map[string]logistics.Workstream
	tasks        map[string]logistics.Task
	visits       map[string]logistics.CompanyVisit
	budgetLines  []logistics.BudgetLine

	// seq preserva el orden de inserción por ID.
	seq  map[string]int
	next int
}

func NewLogisticsRepo() logistics.Repository {
	return &logisticsRepo{
		participants: make(map[string]logistics.Participant),
		vendors:      make(map[string]logistics.Vendor),
		workstreams:  make(map[string]logistics.Workstream),
		tasks:        make(map[string]logistics.Task),
		visits:       make(map[string]logistics.CompanyVisit),
		seq:          make(map[string]int),
	}
}

func (r *logisticsRepo) track(id string) error {
	if id == "" {
		return errors.New("id required")
	}
	if _, exists := r.seq[id]; exists {
		return errors.New("already exists")
	}
	r.next++
	r.seq[id] = r.next
	return nil
}

func (r *logisticsRepo) byInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return r.seq[ids[i]] < r.seq[ids[j]] })
}

// -------------------------
// Participants
// -------------------------

func (r *logisticsRepo) CreateParticipant(ctx context.Context, p logistics.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.track(p.ID); err != nil {
		return err
	}
	r.participants[p.ID] = p
	return nil
}

func (r *logisticsRepo) UpdateParticipant(ctx context.Context, p logistics.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[p.ID]; !ok {
		return logistics.ErrNotFound
	}
	r.participants[p.ID] = p
	return nil
}

func (r *logisticsRepo) GetParticipant(ctx context.Context, id string) (logistics.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[id]
	if !ok {
		return logistics.Participant{}, logistics.ErrNotFound
	}
	return p, nil
}

func (r *logisticsRepo) ListParticipants(ctx context.Context, eventID string) ([]logistics.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, p := range r.participants {
		if p.EventID == eventID {
			ids = append(ids, id)
		}
	}
	r.byInsertion(ids)

	out := make([]logistics.Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.participants[id])
	}
	return out, nil
}

func (r *logisticsRepo) DeleteParticipant(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[id]; !ok {
		return logistics.ErrNotFound
	}
	delete(r.participants, id)
	delete(r.seq, id)
	return nil
}

func (r *logisticsRepo) UpdateParticipantsRSVP(ctx context.Context, eventID string, ids []string, status readiness.RSVPStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if p, ok := r.participants[id]; !ok || p.EventID != eventID {
			return logistics.ErrNotFound
		}
	}
	for _, id := range ids {
		p := r.participants[id]
		p.RSVPStatus = status
		p.UpdatedAt = at
		r.participants[id] = p
	}
	return nil
}

// -------------------------
// Vendors
// -------------------------

func (r *logisticsRepo) CreateVendor(ctx context.Context, v logistics.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.track(v.ID); err != nil {
		return err
	}
	r.vendors[v.ID] = v
	return nil
}

func (r *logisticsRepo) UpdateVendor(ctx context.Context, v logistics.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vendors[v.ID]; !ok {
		return logistics.ErrNotFound
	}
	r.vendors[v.ID] = v
	return nil
}

func (r *logisticsRepo) GetVendor(ctx context.Context, id string) (logistics.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vendors[id]
	if !ok {
		return logistics.Vendor{}, logistics.ErrNotFound
	}
	return v, nil
}

func (r *logisticsRepo) ListVendors(ctx context.Context, eventID string) ([]logistics.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, v := range r.vendors {
		if v.EventID == eventID {
			ids = append(ids, id)
		}
	}
	r.byInsertion(ids)

	out := make([]logistics.Vendor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.vendors[id])
	}
	return out, nil
}

// -------------------------
// Workstreams & tasks
// -------------------------

func (r *logisticsRepo) CreateWorkstreams(ctx context.Context, ws []logistics.Workstream) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range ws {
		if err := r.track(w.ID); err != nil {
			return err
		}
		r.workstreams[w.ID] = w
	}
	return nil
}

func (r *logisticsRepo) GetWorkstream(ctx context.Context, id string) (logistics.Workstream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workstreams[id]
	if !ok {
		return logistics.Workstream{}, logistics.ErrNotFound
	}
	return w, nil
}

func (r *logisticsRepo) ListWorkstreams(ctx context.Context, eventID string) ([]logistics.Workstream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, w := range r.workstreams {
		if w.EventID == eventID {
			ids = append(ids, id)
		}
	}
	r.byInsertion(ids)

	out := make([]logistics.Workstream, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.workstreams[id])
	}
	return out, nil
}

func (r *logisticsRepo) CreateTask(ctx context.Context, t logistics.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workstreams[t.WorkstreamID]; !ok {
		return logistics.ErrNotFound
	}
	if err := r.track(t.ID); err != nil {
		return err
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *logisticsRepo) UpdateTask(ctx context.Context, t logistics.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		return logistics.ErrNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *logisticsRepo) GetTask(ctx context.Context, id string) (logistics.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return logistics.Task{}, logistics.ErrNotFound
	}
	return t, nil
}

func (r *logisticsRepo) ListTasksByEvent(ctx context.Context, eventID string) ([]logistics.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, t := range r.tasks {
		if t.EventID == eventID {
			ids = append(ids, id)
		}
	}
	r.byInsertion(ids)

	out := make([]logistics.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.tasks[id])
	}
	return out, nil
}

func (r *logisticsRepo) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return logistics.ErrNotFound
	}
	delete(r.tasks, id)
	delete(r.seq, id)
	return nil
}

func (r *logisticsRepo) UpdateTasksStatus(ctx context.Context, eventID string, ids []string, status readiness.TaskStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if t, ok := r.tasks[id]; !ok || t.EventID != eventID {
			return logistics.ErrNotFound
		}
	}
	for _, id := range ids {
		t := r.tasks[id]
		t.Status = status
		t.UpdatedAt = at
		r.tasks[id] = t
	}
	return nil
}

// -------------------------
// Company visits
// -------------------------

func (r *logisticsRepo) CreateCompanyVisit(ctx context.Context, v logistics.CompanyVisit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.track(v.ID); err != nil {
		return err
	}
	r.visits[v.ID] = v
	return nil
}

func (r *logisticsRepo) UpdateCompanyVisit(ctx context.Context, v logistics.CompanyVisit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.visits[v.ID]; !ok {
		return logistics.ErrNotFound
	}
	r.visits[v.ID] = v
	return nil
}

func (r *logisticsRepo) GetCompanyVisit(ctx context.Context, id string) (logistics.CompanyVisit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.visits[id]
	if !ok {
		return logistics.CompanyVisit{}, logistics.ErrNotFound
	}
	return v, nil
}

func (r *logisticsRepo) ListCompanyVisits(ctx context.Context, eventID string) ([]logistics.CompanyVisit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, v := range r.visits {
		if v.EventID == eventID {
			ids = append(ids, id)
		}
	}
	r.byInsertion(ids)

	out := make([]logistics.CompanyVisit, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.visits[id])
	}
	return out, nil
}

// -------------------------
// Budget
// -------------------------

func (r *logisticsRepo) CreateBudgetLine(ctx context.Context, b logistics.BudgetLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.track(b.ID); err != nil {
		return err
	}
	r.budgetLines = append(r.budgetLines, b)
	return nil
}

func (r *logisticsRepo) ListBudgetLines(ctx context.Context, eventID string) ([]logistics.BudgetLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]logistics.BudgetLine, 0)
	for _, b := range r.budgetLines {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *logisticsRepo) DeleteEventData(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.participants {
		if p.EventID == eventID {
			delete(r.participants, id)
			delete(r.seq, id)
		}
	}
	for id, v := range r.vendors {
		if v.EventID == eventID {
			delete(r.vendors, id)
			delete(r.seq, id)
		}
	}
	for id, w := range r.workstreams {
		if w.EventID == eventID {
			delete(r.workstreams, id)
			delete(r.seq, id)
		}
	}
	for id, t := range r.tasks {
		if t.EventID == eventID {
			delete(r.tasks, id)
			delete(r.seq, id)
		}
	}
	for id, v := range r.visits {
		if v.EventID == eventID {
			delete(r.visits, id)
			delete(r.seq, id)
		}
	}
	kept := r.budgetLines[:0]
	for _, b := range r.budgetLines {
		if b.EventID == eventID {
			delete(r.seq, b.ID)
			continue
		}
		kept = append(kept, b)
	}
	r.budgetLines = kept
	return nil
}
