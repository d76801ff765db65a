package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"advisory-events/internal/domain/audit"
	"advisory-events/internal/domain/events"
	"advisory-events/internal/domain/logistics"
	"advisory-events/internal/domain/readiness"
)

func TestEventRepo_UpdateStatusIsCompareAndSet(t *testing.T) {
	repo := NewEventRepo()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, events.Event{ID: "evt-1", Status: events.StatusLocked, CreatedAt: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Dos go-live concurrentes: exactamente uno debe ganar.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.UpdateStatus(ctx, "evt-1", events.StatusLocked, events.StatusLive, now)
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch err {
		case nil:
			ok++
		case events.ErrConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("expected 1 winner and 1 conflict, got ok=%d conflicts=%d", ok, conflicts)
	}

	e, err := repo.GetByID(ctx, "evt-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if e.Status != events.StatusLive || e.LiveAt == nil {
		t.Fatalf("unexpected event after CAS: %+v", e)
	}
}

func TestEventRepo_UpdateKeepsStatus(t *testing.T) {
	repo := NewEventRepo()
	ctx := context.Background()

	_ = repo.Create(ctx, events.Event{ID: "evt-1", Name: "A", Status: events.StatusLocked})
	if err := repo.Update(ctx, events.Event{ID: "evt-1", Name: "B", Status: events.StatusDraft}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	e, _ := repo.GetByID(ctx, "evt-1")
	if e.Name != "B" || e.Status != events.StatusLocked {
		t.Fatalf("unexpected event: %+v", e)
	}

	if err := repo.Update(ctx, events.Event{ID: "missing"}); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepo_ListFiltersAndOrders(t *testing.T) {
	repo := NewEventRepo()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, events.Event{ID: "a", Fund: events.FundIPAE1, Status: events.StatusDraft, CreatedAt: base})
	_ = repo.Create(ctx, events.Event{ID: "b", Fund: events.FundIPAE2, Status: events.StatusDraft, CreatedAt: base.Add(time.Hour)})
	_ = repo.Create(ctx, events.Event{ID: "c", Fund: events.FundIPAE2, Status: events.StatusLive, CreatedAt: base.Add(2 * time.Hour)})

	items, _ := repo.List(ctx, events.ListFilter{Fund: events.FundIPAE2})
	if len(items) != 2 || items[0].ID != "c" {
		t.Fatalf("unexpected list: %+v", items)
	}
	items, _ = repo.List(ctx, events.ListFilter{Status: events.StatusDraft, Limit: 1})
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestLogisticsRepo_ListsInInsertionOrderPerEvent(t *testing.T) {
	repo := NewLogisticsRepo()
	ctx := context.Background()

	for _, id := range []string{"p3", "p1", "p2"} {
		if err := repo.CreateParticipant(ctx, logistics.Participant{ID: id, EventID: "evt-1"}); err != nil {
			t.Fatalf("CreateParticipant: %v", err)
		}
	}
	_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "other", EventID: "evt-2"})

	items, _ := repo.ListParticipants(ctx, "evt-1")
	if len(items) != 3 || items[0].ID != "p3" || items[2].ID != "p2" {
		t.Fatalf("unexpected order: %+v", items)
	}

	if err := repo.CreateParticipant(ctx, logistics.Participant{ID: "p1", EventID: "evt-1"}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLogisticsRepo_TaskRequiresWorkstream(t *testing.T) {
	repo := NewLogisticsRepo()
	ctx := context.Background()

	if err := repo.CreateTask(ctx, logistics.Task{ID: "t1", WorkstreamID: "nope"}); !errors.Is(err, logistics.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = repo.CreateWorkstreams(ctx, []logistics.Workstream{{ID: "w1", EventID: "evt-1", Type: readiness.WorkstreamHotel}})
	if err := repo.CreateTask(ctx, logistics.Task{ID: "t1", EventID: "evt-1", WorkstreamID: "w1"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	tasks, _ := repo.ListTasksByEvent(ctx, "evt-1")
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
}

func TestEventRepo_DeleteAndGetNotFound(t *testing.T) {
	repo := NewEventRepo()
	ctx := context.Background()

	_ = repo.Create(ctx, events.Event{ID: "evt-1"})
	if err := repo.Delete(ctx, "evt-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "evt-1"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "evt-1"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLogisticsRepo_BulkUpdatesAreAllOrNothing(t *testing.T) {
	repo := NewLogisticsRepo()
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "p1", EventID: "evt-1", RSVPStatus: readiness.RSVPPending})
	_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "p2", EventID: "evt-1", RSVPStatus: readiness.RSVPPending})
	_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "x1", EventID: "evt-2", RSVPStatus: readiness.RSVPPending})

	err := repo.UpdateParticipantsRSVP(ctx, "evt-1", []string{"p1", "x1"}, readiness.RSVPConfirmed, at)
	if !errors.Is(err, logistics.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign id, got %v", err)
	}
	p, _ := repo.GetParticipant(ctx, "p1")
	if p.RSVPStatus != readiness.RSVPPending {
		t.Fatalf("p1 must be untouched, got %s", p.RSVPStatus)
	}

	if err := repo.UpdateParticipantsRSVP(ctx, "evt-1", []string{"p1", "p2"}, readiness.RSVPConfirmed, at); err != nil {
		t.Fatalf("UpdateParticipantsRSVP: %v", err)
	}
	items, _ := repo.ListParticipants(ctx, "evt-1")
	for _, p := range items {
		if p.RSVPStatus != readiness.RSVPConfirmed || !p.UpdatedAt.Equal(at) {
			t.Fatalf("unexpected participant: %+v", p)
		}
	}

	_ = repo.CreateWorkstreams(ctx, []logistics.Workstream{{ID: "w1", EventID: "evt-1", Type: readiness.WorkstreamHotel}})
	_ = repo.CreateTask(ctx, logistics.Task{ID: "t1", EventID: "evt-1", WorkstreamID: "w1", Status: readiness.TaskNotStarted})
	if err := repo.UpdateTasksStatus(ctx, "evt-1", []string{"t1", "missing"}, readiness.TaskDone, at); !errors.Is(err, logistics.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateTasksStatus(ctx, "evt-1", []string{"t1"}, readiness.TaskDone, at); err != nil {
		t.Fatalf("UpdateTasksStatus: %v", err)
	}
	task, _ := repo.GetTask(ctx, "t1")
	if task.Status != readiness.TaskDone {
		t.Fatalf("expected DONE, got %s", task.Status)
	}
}

func TestLogisticsRepo_DeleteEventDataKeepsOtherEvents(t *testing.T) {
	repo := NewLogisticsRepo()
	ctx := context.Background()

	for _, evt := range []string{"evt-1", "evt-2"} {
		_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "p-" + evt, EventID: evt})
		_ = repo.CreateVendor(ctx, logistics.Vendor{ID: "v-" + evt, EventID: evt})
		_ = repo.CreateWorkstreams(ctx, []logistics.Workstream{{ID: "w-" + evt, EventID: evt, Type: readiness.WorkstreamHotel}})
		_ = repo.CreateTask(ctx, logistics.Task{ID: "t-" + evt, EventID: evt, WorkstreamID: "w-" + evt})
		_ = repo.CreateCompanyVisit(ctx, logistics.CompanyVisit{ID: "c-" + evt, EventID: evt})
		_ = repo.CreateBudgetLine(ctx, logistics.BudgetLine{ID: "b-" + evt, EventID: evt})
	}

	if err := repo.DeleteEventData(ctx, "evt-1"); err != nil {
		t.Fatalf("DeleteEventData: %v", err)
	}

	ps, _ := repo.ListParticipants(ctx, "evt-1")
	ws, _ := repo.ListWorkstreams(ctx, "evt-1")
	ts, _ := repo.ListTasksByEvent(ctx, "evt-1")
	bs, _ := repo.ListBudgetLines(ctx, "evt-1")
	if len(ps)+len(ws)+len(ts)+len(bs) != 0 {
		t.Fatalf("evt-1 data left behind")
	}
	bs, _ = repo.ListBudgetLines(ctx, "evt-2")
	ts, _ = repo.ListTasksByEvent(ctx, "evt-2")
	if len(bs) != 1 || len(ts) != 1 {
		t.Fatalf("evt-2 data must survive, got %d lines %d tasks", len(bs), len(ts))
	}

	// Los IDs borrados se pueden reutilizar.
	if err := repo.CreateParticipant(ctx, logistics.Participant{ID: "p-evt-1", EventID: "evt-3"}); err != nil {
		t.Fatalf("CreateParticipant after purge: %v", err)
	}
}

func TestLogisticsRepo_DeleteParticipantAndTask(t *testing.T) {
	repo := NewLogisticsRepo()
	ctx := context.Background()

	_ = repo.CreateParticipant(ctx, logistics.Participant{ID: "p1", EventID: "evt-1"})
	if err := repo.DeleteParticipant(ctx, "p1"); err != nil {
		t.Fatalf("DeleteParticipant: %v", err)
	}
	if _, err := repo.GetParticipant(ctx, "p1"); !errors.Is(err, logistics.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTask(ctx, "nope"); !errors.Is(err, logistics.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditRepo_NewestFirst(t *testing.T) {
	repo := NewAuditRepo()
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_ = repo.Append(ctx, audit.Entry{ID: "1", EventID: "evt-1", CreatedAt: at})
	_ = repo.Append(ctx, audit.Entry{ID: "2", EventID: "evt-1", CreatedAt: at})
	_ = repo.Append(ctx, audit.Entry{ID: "3", EventID: "evt-1", CreatedAt: at.Add(-time.Minute)})

	items, _ := repo.ListByEvent(ctx, "evt-1", 10)
	if len(items) != 3 || items[0].ID != "2" || items[1].ID != "1" || items[2].ID != "3" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
