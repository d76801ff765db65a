package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"advisory-events/internal/domain/audit"
	"advisory-events/internal/domain/readiness"
	"advisory-events/internal/platform/logger"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Event
	// getErr simula una caída del almacenamiento en GetByID.
	getErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Event{}}
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Event, error) {
	if r.getErr != nil {
		return Event{}, r.getErr
	}
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range r.byID {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, e Event) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if e.Status != from {
		return ErrConflict
	}
	e.Status = to
	e.UpdatedAt = at
	switch to {
	case StatusLocked:
		e.LockedAt = &at
	case StatusLive:
		e.LiveAt = &at
	case StatusClosed:
		e.ClosedAt = &at
	}
	r.byID[id] = e
	return nil
}

type testLogistics struct {
	seeded  []string
	purged  []string
	snap    readiness.Snapshot
	seedErr error
}

func (l *testLogistics) SeedWorkstreams(ctx context.Context, eventID string) error {
	if l.seedErr != nil {
		return l.seedErr
	}
	l.seeded = append(l.seeded, eventID)
	return nil
}

func (l *testLogistics) PurgeEvent(ctx context.Context, eventID string) error {
	l.purged = append(l.purged, eventID)
	return nil
}

func (l *testLogistics) EventLogistics(ctx context.Context, eventID string) (readiness.Snapshot, error) {
	s := l.snap
	s.EventID = eventID
	return s, nil
}

type testAudit struct {
	entries []audit.RecordInput
}

func (a *testAudit) Record(ctx context.Context, in audit.RecordInput) (audit.Entry, error) {
	a.entries = append(a.entries, in)
	return audit.Entry{ID: "a"}, nil
}

func newTestService() (*Service, *testRepo, *testLogistics, *testAudit) {
	repo := newTestRepo()
	lg := &testLogistics{}
	au := &testAudit{}
	svc := NewService(repo, lg, au, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return svc, repo, lg, au
}

func readyLogistics() readiness.Snapshot {
	return readiness.Snapshot{
		Participants: []readiness.Participant{
			{ID: "p1", Role: readiness.RoleLP, NeedsVisa: true, VisaStatus: readiness.VisaApproved, RSVPStatus: readiness.RSVPConfirmed},
		},
		Vendors: []readiness.Vendor{
			{ID: "v1", Name: "Radisson Blu", Category: readiness.VendorHotel, ContractSigned: true},
		},
	}
}

func createEvent(t *testing.T, svc *Service, week *time.Time) Event {
	t.Helper()
	e, err := svc.Create(context.Background(), "ops-1", CreateInput{
		Name:         "AC Dakar 2026",
		Fund:         FundIPAE2,
		Country:      "Sénégal",
		City:         "Dakar",
		SelectedWeek: week,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_SeedsWorkstreamsAndAudits(t *testing.T) {
	svc, _, lg, au := newTestService()

	e := createEvent(t, svc, nil)
	if e.Status != StatusDraft {
		t.Fatalf("expected DRAFT, got %s", e.Status)
	}
	if len(lg.seeded) != 1 || lg.seeded[0] != e.ID {
		t.Fatalf("expected workstreams seeded for %s, got %v", e.ID, lg.seeded)
	}
	if len(au.entries) != 1 || au.entries[0].Action != audit.ActionCreate || au.entries[0].UserID != "ops-1" {
		t.Fatalf("unexpected audit entries: %#v", au.entries)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	neg := -5.0

	cases := []CreateInput{
		{Name: "", Fund: FundIPAE1, Country: "SN", City: "Dakar"},
		{Name: "AC", Fund: "IPAE_9", Country: "SN", City: "Dakar"},
		{Name: "AC", Fund: FundIPAE1, Country: "SN", City: " "},
		{Name: "AC", Fund: FundIPAE1, Country: "SN", City: "Dakar", BudgetPlanned: &neg},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), "", in); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestService_Create_NormalizesWeekToMonday(t *testing.T) {
	svc, _, _, _ := newTestService()
	thursday := time.Date(2026, 4, 9, 15, 30, 0, 0, time.UTC)

	e := createEvent(t, svc, &thursday)
	want := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	if e.SelectedWeek == nil || !e.SelectedWeek.Equal(want) {
		t.Fatalf("expected week %v, got %v", want, e.SelectedWeek)
	}
}

func TestService_Evaluate_UsesEventWeekAndBudget(t *testing.T) {
	svc, _, lg, _ := newTestService()
	lg.snap = readyLogistics()

	e := createEvent(t, svc, nil)
	ev, err := svc.Evaluate(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Summary.CanGoLive {
		t.Fatalf("expected not ready without selected week")
	}
	if ev.Summary.BlockersTotal != 6 || ev.Summary.BlockersPassed != 5 {
		t.Fatalf("unexpected summary: %+v", ev.Summary)
	}

	week := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Update(context.Background(), e.ID, "ops-1", UpdateInput{SelectedWeek: &week}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ev, err = svc.Evaluate(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ev.Summary.CanGoLive {
		t.Fatalf("expected ready once week is selected: %+v", ev.Checks)
	}
}

func TestService_Lifecycle_HappyPath(t *testing.T) {
	svc, _, lg, au := newTestService()
	lg.snap = readyLogistics()
	week := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	e := createEvent(t, svc, &week)
	ctx := context.Background()

	e, err := svc.Lock(ctx, e.ID, "ops-1")
	if err != nil || e.Status != StatusLocked || e.LockedAt == nil {
		t.Fatalf("Lock: %v (%+v)", err, e)
	}

	e, verdict, err := svc.GoLive(ctx, e.ID, "ops-1")
	if err != nil {
		t.Fatalf("GoLive: %v", err)
	}
	if e.Status != StatusLive || verdict.Forced || !verdict.Transition {
		t.Fatalf("unexpected go-live result: %+v %+v", e, verdict)
	}

	e, err = svc.Close(ctx, e.ID, "ops-1")
	if err != nil || e.Status != StatusClosed || e.ClosedAt == nil {
		t.Fatalf("Close: %v (%+v)", err, e)
	}

	// create + 3 transiciones
	if len(au.entries) != 4 {
		t.Fatalf("expected 4 audit entries, got %d", len(au.entries))
	}
}

func TestService_GoLive_RefusedWhenBlockersFail(t *testing.T) {
	svc, repo, lg, au := newTestService()
	lg.snap = readyLogistics()
	e := createEvent(t, svc, nil) // sin semana => date-selected falla
	ctx := context.Background()

	if _, err := svc.Lock(ctx, e.ID, ""); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	before := len(au.entries)

	_, verdict, err := svc.GoLive(ctx, e.ID, "ops-1")
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if len(verdict.FailingBlockers) != 1 || verdict.FailingBlockers[0].ID != "date-selected" {
		t.Fatalf("unexpected failing blockers: %+v", verdict.FailingBlockers)
	}
	if repo.byID[e.ID].Status != StatusLocked {
		t.Fatalf("status must stay LOCKED, got %s", repo.byID[e.ID].Status)
	}
	if len(au.entries) != before {
		t.Fatalf("refused go-live must not write a status change")
	}
}

func TestService_ForceGoLive(t *testing.T) {
	svc, _, lg, au := newTestService()
	lg.snap = readiness.Snapshot{} // nada listo
	e := createEvent(t, svc, nil)
	ctx := context.Background()

	if _, err := svc.Lock(ctx, e.ID, ""); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	_, _, err := svc.ForceGoLive(ctx, e.ID, "ops-1", "   ")
	if !errors.Is(err, readiness.ErrJustificationRequired) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected justification error, got %v", err)
	}

	e, verdict, err := svc.ForceGoLive(ctx, e.ID, "ops-1", "Validé par le comité")
	if err != nil {
		t.Fatalf("ForceGoLive: %v", err)
	}
	if e.Status != StatusLive || !verdict.Forced {
		t.Fatalf("expected forced LIVE, got %+v %+v", e, verdict)
	}

	last := au.entries[len(au.entries)-1]
	changes, ok := last.Changes.(map[string]any)
	if !ok || changes["justification"] != "Validé par le comité" || changes["forced"] != true {
		t.Fatalf("unexpected audit changes: %#v", last.Changes)
	}
}

func TestService_Transitions_RejectWrongState(t *testing.T) {
	svc, _, lg, _ := newTestService()
	lg.snap = readyLogistics()
	e := createEvent(t, svc, nil)
	ctx := context.Background()

	if _, _, err := svc.GoLive(ctx, e.ID, ""); err != ErrBadState {
		t.Fatalf("go-live from DRAFT: expected ErrBadState, got %v", err)
	}
	if _, _, err := svc.ForceGoLive(ctx, e.ID, "", "x"); err != ErrBadState {
		t.Fatalf("force from DRAFT: expected ErrBadState, got %v", err)
	}
	if _, err := svc.Close(ctx, e.ID, ""); err != ErrBadState {
		t.Fatalf("close from DRAFT: expected ErrBadState, got %v", err)
	}
	if _, err := svc.Lock(ctx, e.ID, ""); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := svc.Lock(ctx, e.ID, ""); err != ErrBadState {
		t.Fatalf("double lock: expected ErrBadState, got %v", err)
	}
}

func TestService_Transition_ConflictWhenStatusMoved(t *testing.T) {
	svc, repo, _, _ := newTestService()
	e := createEvent(t, svc, nil)

	// Simula otra escritura concurrente entre la lectura y el CAS.
	stale := e
	moved := repo.byID[e.ID]
	moved.Status = StatusLocked
	repo.byID[e.ID] = moved

	if _, err := svc.writeStatus(context.Background(), stale, StatusLocked, "", nil); err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestService_Update_ClosedEventIsReadOnly(t *testing.T) {
	svc, repo, _, _ := newTestService()
	e := createEvent(t, svc, nil)
	closed := repo.byID[e.ID]
	closed.Status = StatusClosed
	repo.byID[e.ID] = closed

	name := "Nuevo"
	if _, err := svc.Update(context.Background(), e.ID, "", UpdateInput{Name: &name}); err != ErrBadState {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, err := svc.Exists(context.Background(), " "); ok || err != nil {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestService_GetByID_StorageFailureIsNotNotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()
	down := errors.New("connection refused")
	repo.getErr = down

	_, err := svc.GetByID(context.Background(), "evt-1")
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("storage failure must not look like ErrNotFound: %v", err)
	}
	if !errors.Is(err, down) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}

	if ok, err := svc.Exists(context.Background(), "evt-1"); ok || !errors.Is(err, down) {
		t.Fatalf("expected (false, storage error), got (%v, %v)", ok, err)
	}
	if _, err := svc.Evaluate(context.Background(), "evt-1"); errors.Is(err, ErrNotFound) {
		t.Fatalf("Evaluate must surface the storage failure, got %v", err)
	}
}

func TestService_Create_SeedFailureStillReturnsEvent(t *testing.T) {
	svc, repo, lg, au := newTestService()
	lg.seedErr = errors.New("workstreams insert failed")

	e, err := svc.Create(context.Background(), "ops-1", CreateInput{
		Name:    "AC Dakar",
		Fund:    FundIPAE1,
		Country: "Sénégal",
		City:    "Dakar",
	})
	if err != nil {
		t.Fatalf("Create must not fail once the event is stored: %v", err)
	}
	if _, ok := repo.byID[e.ID]; !ok {
		t.Fatalf("event not stored")
	}
	if len(au.entries) != 1 || au.entries[0].Action != audit.ActionCreate {
		t.Fatalf("expected CREATE audit entry, got %+v", au.entries)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, lg, au := newTestService()
	ctx := context.Background()

	e, err := svc.Create(ctx, "ops-1", CreateInput{Name: "AB Abidjan", Fund: FundIPAE2, Country: "Côte d'Ivoire", City: "Abidjan"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, e.ID, "ops-2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.byID[e.ID]; ok {
		t.Fatalf("event still stored")
	}
	if len(lg.purged) != 1 || lg.purged[0] != e.ID {
		t.Fatalf("expected logistics purge for %s, got %v", e.ID, lg.purged)
	}
	last := au.entries[len(au.entries)-1]
	if last.Action != audit.ActionDelete || last.UserID != "ops-2" || last.EntityID != e.ID {
		t.Fatalf("unexpected audit entry: %+v", last)
	}

	if err := svc.Delete(ctx, e.ID, ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Delete_RefusesLiveEvent(t *testing.T) {
	svc, repo, lg, _ := newTestService()
	repo.byID["evt-live"] = Event{ID: "evt-live", Status: StatusLive}

	if err := svc.Delete(context.Background(), "evt-live", ""); err != ErrBadState {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
	if _, ok := repo.byID["evt-live"]; !ok || len(lg.purged) != 0 {
		t.Fatalf("live event must be kept untouched")
	}
}

func TestService_Stats(t *testing.T) {
	svc, repo, lg, _ := newTestService()
	week := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	repo.byID["evt-1"] = Event{ID: "evt-1", Status: StatusDraft, SelectedWeek: &week, BudgetPlanned: ptrFloat(5000)}
	lg.snap = readiness.Snapshot{
		Workstreams: []readiness.Workstream{
			{Type: readiness.WorkstreamHotel, Tasks: []readiness.Task{
				{Status: readiness.TaskDone},
				{Status: readiness.TaskNotStarted, Criticality: readiness.CriticalityBlocking},
			}},
		},
		Participants: []readiness.Participant{{RSVPStatus: readiness.RSVPConfirmed, NeedsVisa: true, VisaStatus: readiness.VisaPending}},
		BudgetLines:  []readiness.BudgetLine{{AmountCommitted: ptrFloat(1200), AmountPaid: ptrFloat(300)}},
	}

	d, err := svc.Stats(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// now = 2026-03-02 09:00 => 14 días (redondeo hacia arriba).
	if d.Stats.DaysUntilEvent == nil || *d.Stats.DaysUntilEvent != 14 {
		t.Fatalf("unexpected days until event: %v", d.Stats.DaysUntilEvent)
	}
	if d.Stats.TotalTasks != 2 || d.Stats.CriticalTasks != 1 || d.Stats.VisasPending != 1 {
		t.Fatalf("unexpected stats: %+v", d.Stats)
	}
	if d.Stats.BudgetPlanned != 5000 || d.Stats.BudgetCommitted != 1200 || d.Stats.BudgetPaid != 300 {
		t.Fatalf("unexpected budget stats: %+v", d.Stats)
	}
	if len(d.Workstreams) != 1 || d.Workstreams[0].Progress != 50 || d.Workstreams[0].Status != readiness.ProgressOnTrack {
		t.Fatalf("unexpected progress: %+v", d.Workstreams)
	}

	if _, err := svc.Stats(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func ptrFloat(v float64) *float64 { return &v }
