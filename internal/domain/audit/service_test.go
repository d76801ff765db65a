package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	entries []Entry
	fail    error
}

func (r *testRepo) Append(ctx context.Context, e Entry) error {
	if r.fail != nil {
		return r.fail
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *testRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Record_SerializesChanges(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	e, err := svc.Record(context.Background(), RecordInput{
		Action:     ActionStatusChange,
		EntityType: "event",
		EntityID:   "evt-1",
		EventID:    "evt-1",
		UserID:     " ops-1 ",
		Changes:    map[string]any{"from": "LOCKED", "to": "LIVE"},
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.CreatedAt != now {
		t.Fatalf("expected CreatedAt to be now")
	}
	if e.UserID != "ops-1" {
		t.Fatalf("expected trimmed user id, got %q", e.UserID)
	}

	var changes map[string]string
	if err := json.Unmarshal(e.Changes, &changes); err != nil {
		t.Fatalf("changes not json: %v", err)
	}
	if changes["to"] != "LIVE" {
		t.Fatalf("unexpected changes: %#v", changes)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(repo.entries))
	}
}

func TestService_Record_RejectsMissingEntity(t *testing.T) {
	svc := NewService(&testRepo{})

	_, err := svc.Record(context.Background(), RecordInput{Action: ActionCreate, EntityType: "event"})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Record_PropagatesRepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&testRepo{fail: boom})

	_, err := svc.Record(context.Background(), RecordInput{Action: ActionCreate, EntityType: "event", EntityID: "e"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestService_ListByEvent_NewestFirstAndClamped(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		if _, err := svc.Record(context.Background(), RecordInput{
			Action: ActionUpdate, EntityType: "event", EntityID: "evt-1", EventID: "evt-1",
		}); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	items, err := svc.ListByEvent(context.Background(), "evt-1", 2)
	if err != nil {
		t.Fatalf("ListByEvent: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].CreatedAt.After(items[1].CreatedAt) {
		t.Fatalf("expected newest first")
	}

	if _, err := svc.ListByEvent(context.Background(), " ", 0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty event id, got %v", err)
	}
}
