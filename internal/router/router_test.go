package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"advisory-events/internal/router"
)

func TestHTTP_EndToEnd_GoLiveGate(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	op := "ops-1"

	// 1) Crear evento sin semana elegida
	eventID := createEvent(t, ts.URL, op, map[string]any{
		"name":           "AC IPAE 2 Dakar",
		"fund":           "IPAE_2",
		"country":        "Sénégal",
		"city":           "Dakar",
		"budget_planned": 50000,
	})

	// 2) Workstreams sembrados
	{
		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/workstreams", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing workstreams, got %d body=%s", st, string(body))
		}
		var ws []map[string]any
		mustDecode(t, body, &ws)
		if len(ws) != 14 {
			t.Fatalf("expected 14 workstreams, got %d", len(ws))
		}
	}

	// 3) LP pendiente + hotel sin contrato
	lpID := createResource(t, ts.URL, op, "/events/"+eventID+"/participants", map[string]any{
		"name":        "Fonds Souverain",
		"role":        "LP",
		"rsvp_status": "PENDING",
	})
	hotelID := createResource(t, ts.URL, op, "/events/"+eventID+"/vendors", map[string]any{
		"category": "HOTEL",
		"name":     "Hôtel Terrou-Bi",
	})

	// 4) Lock
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/lock", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on lock, got %d body=%s", st, string(body))
		}
	}

	// 5) Go-live rechazado con los blockers que fallan
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/go-live", op, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on refused go-live, got %d body=%s", st, string(body))
		}
		var out struct {
			FailingBlockers []struct {
				ID string `json:"id"`
			} `json:"failing_blockers"`
		}
		mustDecode(t, body, &out)

		ids := make([]string, 0)
		for _, c := range out.FailingBlockers {
			ids = append(ids, c.ID)
		}
		sort.Strings(ids)
		want := []string{"date-selected", "hotel-contracted", "lp-confirmed"}
		if len(ids) != len(want) {
			t.Fatalf("expected failing blockers %v, got %v", want, ids)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("expected failing blockers %v, got %v", want, ids)
			}
		}

		if s := eventStatus(t, ts.URL, eventID); s != "LOCKED" {
			t.Fatalf("expected event to stay LOCKED, got %s", s)
		}
	}

	// 6) Resolver los blockers
	{
		st, body := doReq(t, ts.URL, "PATCH", "/events/"+eventID+"/participants/"+lpID, op, map[string]any{"rsvp_status": "CONFIRMED"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patching participant, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "PATCH", "/events/"+eventID+"/vendors/"+hotelID, op, map[string]any{"contract_signed": true})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patching vendor, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "PATCH", "/events/"+eventID, op, map[string]any{"selected_week": "2026-04-09"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patching event, got %d body=%s", st, string(body))
		}
		var e map[string]any
		mustDecode(t, body, &e)
		if e["selected_week"] != "2026-04-06" {
			t.Fatalf("expected week normalized to monday, got %v", e["selected_week"])
		}
	}

	// 7) Checklist verde
	{
		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/go-no-go", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on go-no-go, got %d body=%s", st, string(body))
		}
		var out struct {
			Checks  []map[string]any `json:"checks"`
			Summary struct {
				BlockersPassed int  `json:"blockers_passed"`
				BlockersTotal  int  `json:"blockers_total"`
				CanGoLive      bool `json:"can_go_live"`
			} `json:"summary"`
		}
		mustDecode(t, body, &out)
		if len(out.Checks) != 10 || !out.Summary.CanGoLive || out.Summary.BlockersPassed != out.Summary.BlockersTotal {
			t.Fatalf("unexpected go-no-go: %s", string(body))
		}
	}

	// 8) Go-live y cierre
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/go-live", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on go-live, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/events/"+eventID+"/close", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on close, got %d body=%s", st, string(body))
		}
	}

	// 9) Cerrado => solo lectura
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/events/"+eventID, op, map[string]any{"name": "otro"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 updating closed event, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/events/"+eventID+"/go-live", op, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on go-live from CLOSED, got %d", st)
		}
	}

	// 10) Auditoría: CREATE, STATUS_CHANGE x3, UPDATE
	{
		entries := listAudit(t, ts.URL, eventID)
		counts := map[string]int{}
		for _, e := range entries {
			counts[e.Action]++
			if e.UserID != op {
				t.Fatalf("expected audit user %s, got %q", op, e.UserID)
			}
		}
		if counts["CREATE"] != 1 || counts["STATUS_CHANGE"] != 3 || counts["UPDATE"] != 1 {
			t.Fatalf("unexpected audit counts: %v", counts)
		}
		if entries[0].Action != "STATUS_CHANGE" || entries[0].Changes["to"] != "CLOSED" {
			t.Fatalf("expected newest entry to be the close, got %+v", entries[0])
		}
	}
}

func TestHTTP_ForceGoLive(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	op := "ops-2"
	eventID := createEvent(t, ts.URL, op, map[string]any{
		"name":    "AB IPAE 3 Abidjan",
		"fund":    "IPAE_3",
		"country": "Côte d'Ivoire",
		"city":    "Abidjan",
	})

	// Force desde DRAFT no está permitido
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/force-go-live", op, map[string]any{"justification": "urgence"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 forcing from DRAFT, got %d", st)
		}
	}

	if st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/lock", op, nil); st != http.StatusOK {
		t.Fatalf("expected 200 on lock, got %d body=%s", st, string(body))
	}

	// Sin semana elegida el go-live normal se rechaza
	if st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/go-live", op, nil); st != http.StatusConflict {
		t.Fatalf("expected 409 on refused go-live, got %d", st)
	}

	// Justificación vacía
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/force-go-live", op, map[string]any{"justification": "   "})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 on empty justification, got %d", st)
		}
		if s := eventStatus(t, ts.URL, eventID); s != "LOCKED" {
			t.Fatalf("expected event to stay LOCKED, got %s", s)
		}
	}

	// Force con justificación
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/force-go-live", op, map[string]any{"justification": "Date imposée par le comité"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 on force go-live, got %d body=%s", st, string(body))
		}
		var out struct {
			Event struct {
				Status string `json:"status"`
			} `json:"event"`
			Forced          bool             `json:"forced"`
			Justification   string           `json:"justification"`
			FailingBlockers []map[string]any `json:"failing_blockers"`
		}
		mustDecode(t, body, &out)
		if out.Event.Status != "LIVE" || !out.Forced || out.Justification != "Date imposée par le comité" || len(out.FailingBlockers) == 0 {
			t.Fatalf("unexpected force response: %s", string(body))
		}
	}

	entries := listAudit(t, ts.URL, eventID)
	if len(entries) == 0 || entries[0].Changes["forced"] != true || entries[0].Changes["justification"] != "Date imposée par le comité" {
		t.Fatalf("expected forced go-live audited first, got %+v", entries)
	}
}

func TestHTTP_Basics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 on health, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/events/missing/go-no-go", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/events/missing/participants", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event participants, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/events", "", map[string]any{"name": "x", "fund": "IPAE_9"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fund, got %d", st)
	}
	// Sin API key el copiloto no está disponible
	if st, _ := doReq(t, ts.URL, "POST", "/ai/generate", "", map[string]any{"action": "generate-rsvp-reminder"}); st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without generator, got %d", st)
	}
}

func TestHTTP_DashboardBulkAndDeletes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	op := "ops-3"
	eventID := createEvent(t, ts.URL, op, map[string]any{
		"name":           "AC IPAE 1 Lomé",
		"fund":           "IPAE_1",
		"country":        "Togo",
		"city":           "Lomé",
		"budget_planned": 20000,
	})

	hotelWS := workstreamID(t, ts.URL, eventID, "HOTEL")
	contract := createResource(t, ts.URL, op, "/events/"+eventID+"/workstreams/"+hotelWS+"/tasks", map[string]any{
		"title":       "Signer le contrat hôtel",
		"criticality": "BLOCKING",
	})
	rooming := createResource(t, ts.URL, op, "/events/"+eventID+"/workstreams/"+hotelWS+"/tasks", map[string]any{
		"title":       "Rooming list",
		"criticality": "LOW",
	})
	p1 := createResource(t, ts.URL, op, "/events/"+eventID+"/participants", map[string]any{"name": "LP 1", "role": "LP"})
	p2 := createResource(t, ts.URL, op, "/events/"+eventID+"/participants", map[string]any{"name": "LP 2", "role": "LP"})

	// Tareas bloqueantes abiertas: solo la BLOCKING
	{
		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/tasks/blocking", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on blocking tasks, got %d body=%s", st, string(body))
		}
		var out []struct {
			ID             string `json:"id"`
			WorkstreamType string `json:"workstream_type"`
		}
		mustDecode(t, body, &out)
		if len(out) != 1 || out[0].ID != contract || out[0].WorkstreamType != "HOTEL" {
			t.Fatalf("unexpected blocking tasks: %s", string(body))
		}
	}

	// RSVP masivo
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/participants/bulk-rsvp", op, map[string]any{
			"participant_ids": []string{p1, p2},
			"rsvp_status":     "CONFIRMED",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 on bulk rsvp, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/events/"+eventID+"/participants/bulk-rsvp", op, map[string]any{
			"participant_ids": []string{p1, "ghost"},
			"rsvp_status":     "DECLINED",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 when an id is foreign, got %d", st)
		}
	}

	// Estado masivo: ambas tareas DONE
	if st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/tasks/bulk-status", op, map[string]any{
		"task_ids": []string{contract, rooming},
		"status":   "DONE",
	}); st != http.StatusOK {
		t.Fatalf("expected 200 on bulk status, got %d body=%s", st, string(body))
	}

	// Tablero
	{
		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/stats", op, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on stats, got %d body=%s", st, string(body))
		}
		var out struct {
			Stats struct {
				TotalTasks            int     `json:"total_tasks"`
				CompletedTasks        int     `json:"completed_tasks"`
				CriticalTasks         int     `json:"critical_tasks"`
				ParticipantsConfirmed int     `json:"participants_confirmed"`
				BudgetPlanned         float64 `json:"budget_planned"`
				DaysUntilEvent        *int    `json:"days_until_event"`
			} `json:"stats"`
			Workstreams []struct {
				Type     string `json:"type"`
				Progress int    `json:"progress"`
				Status   string `json:"status"`
			} `json:"workstreams"`
		}
		mustDecode(t, body, &out)
		if out.Stats.TotalTasks != 2 || out.Stats.CompletedTasks != 2 || out.Stats.CriticalTasks != 0 {
			t.Fatalf("unexpected task stats: %s", string(body))
		}
		if out.Stats.ParticipantsConfirmed != 2 || out.Stats.BudgetPlanned != 20000 || out.Stats.DaysUntilEvent != nil {
			t.Fatalf("unexpected stats: %s", string(body))
		}
		if len(out.Workstreams) != 14 {
			t.Fatalf("expected 14 workstreams, got %d", len(out.Workstreams))
		}
		for _, w := range out.Workstreams {
			if w.Type == "HOTEL" && (w.Progress != 100 || w.Status != "complete") {
				t.Fatalf("unexpected hotel progress: %+v", w)
			}
		}
	}

	// Deletes
	if st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID+"/tasks/"+rooming, op, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 deleting task, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID+"/tasks/"+rooming, op, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 deleting task twice, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID+"/participants/"+p2, op, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 deleting participant, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID, op, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 deleting event, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/events/"+eventID, op, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/events/"+eventID+"/stats", op, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 stats after delete, got %d", st)
	}

	entries := listAudit(t, ts.URL, eventID)
	if len(entries) == 0 || entries[0].Action != "DELETE" || entries[0].UserID != op {
		t.Fatalf("expected DELETE audited first, got %+v", entries)
	}
}

func TestHTTP_DeleteLiveEventRefused(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	op := "ops-4"
	eventID := createEvent(t, ts.URL, op, map[string]any{
		"name":    "AB IPAE 2 Cotonou",
		"fund":    "IPAE_2",
		"country": "Bénin",
		"city":    "Cotonou",
	})
	doReq(t, ts.URL, "POST", "/events/"+eventID+"/lock", op, nil)
	if st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/force-go-live", op, map[string]any{"justification": "Comité maintenu"}); st != http.StatusOK {
		t.Fatalf("expected 200 on force go-live, got %d body=%s", st, string(body))
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID, op, nil); st != http.StatusConflict {
		t.Fatalf("expected 409 deleting a LIVE event, got %d", st)
	}
	if s := eventStatus(t, ts.URL, eventID); s != "LIVE" {
		t.Fatalf("expected event kept LIVE, got %s", s)
	}
}

type auditEntry struct {
	Action  string         `json:"action"`
	UserID  string         `json:"user_id"`
	Changes map[string]any `json:"changes"`
}

func listAudit(t *testing.T, baseURL, eventID string) []auditEntry {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/events/"+eventID+"/audit", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing audit, got %d body=%s", st, string(body))
	}
	var out []auditEntry
	mustDecode(t, body, &out)
	return out
}

func eventStatus(t *testing.T, baseURL, eventID string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/events/"+eventID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 getting event, got %d body=%s", st, string(body))
	}
	var out struct {
		Status string `json:"status"`
	}
	mustDecode(t, body, &out)
	return out.Status
}

func workstreamID(t *testing.T, baseURL, eventID, typ string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/events/"+eventID+"/workstreams", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing workstreams, got %d body=%s", st, string(body))
	}
	var ws []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	mustDecode(t, body, &ws)
	for _, w := range ws {
		if w.Type == typ {
			return w.ID
		}
	}
	t.Fatalf("workstream %s not found", typ)
	return ""
}

func createEvent(t *testing.T, baseURL, operatorID string, payload map[string]any) string {
	t.Helper()
	return createResource(t, baseURL, operatorID, "/events", payload)
}

func createResource(t *testing.T, baseURL, operatorID, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, operatorID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 on POST %s, got %d body=%s", path, st, string(body))
	}
	var out map[string]any
	mustDecode(t, body, &out)

	id, _ := out["id"].(string)
	if id == "" {
		t.Fatalf("expected id in response, got body=%s", string(body))
	}
	return id
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode json: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, operatorID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if operatorID != "" {
		req.Header.Set("X-Operator-ID", operatorID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
