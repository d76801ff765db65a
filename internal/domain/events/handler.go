package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"advisory-events/internal/domain/readiness"
	"advisory-events/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/events", createEventHandler(svc))
	r.Get("/events", listEventsHandler(svc))
	r.Get("/events/{eventID}", getEventHandler(svc))
	r.Patch("/events/{eventID}", updateEventHandler(svc))
	r.Delete("/events/{eventID}", deleteEventHandler(svc))

	r.Get("/events/{eventID}/go-no-go", goNoGoHandler(svc))
	r.Get("/events/{eventID}/stats", statsHandler(svc))

	// Ciclo de vida: DRAFT -> LOCKED -> LIVE -> CLOSED
	r.Post("/events/{eventID}/lock", lockEventHandler(svc))
	r.Post("/events/{eventID}/go-live", goLiveHandler(svc))
	r.Post("/events/{eventID}/force-go-live", forceGoLiveHandler(svc))
	r.Post("/events/{eventID}/close", closeEventHandler(svc))
}

// createEventRequest es el cuerpo para crear un evento AC/AB.
type createEventRequest struct {
	Name          string   `json:"name"`
	Fund          Fund     `json:"fund" enums:"IPAE_1,IPAE_2,IPAE_3"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	SelectedWeek  string   `json:"selected_week"` // YYYY-MM-DD, opcional
	BudgetPlanned *float64 `json:"budget_planned"`
	Notes         string   `json:"notes"`
}

// updateEventRequest: null/ausente = no tocar. selected_week "" borra la fecha.
type updateEventRequest struct {
	Name          *string  `json:"name"`
	Country       *string  `json:"country"`
	City          *string  `json:"city"`
	SelectedWeek  *string  `json:"selected_week"`
	BudgetPlanned *float64 `json:"budget_planned"`
	Notes         *string  `json:"notes"`
}

type forceGoLiveRequest struct {
	Justification string `json:"justification"`
}

type eventResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Fund          Fund       `json:"fund"`
	Country       string     `json:"country"`
	City          string     `json:"city"`
	SelectedWeek  *string    `json:"selected_week"`
	Status        Status     `json:"status"`
	BudgetPlanned *float64   `json:"budget_planned,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	LiveAt        *time.Time `json:"live_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

type checkResponse struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Severity    readiness.Severity `json:"severity"`
	Passed      bool               `json:"passed"`
	Details     string             `json:"details,omitempty"`
}

type summaryResponse struct {
	BlockersPassed int  `json:"blockers_passed"`
	BlockersTotal  int  `json:"blockers_total"`
	WarningsPassed int  `json:"warnings_passed"`
	WarningsTotal  int  `json:"warnings_total"`
	CanGoLive      bool `json:"can_go_live"`
}

type goNoGoResponse struct {
	EventID     string          `json:"event_id"`
	Status      Status          `json:"status"`
	Checks      []checkResponse `json:"checks"`
	Summary     summaryResponse `json:"summary"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
}

type transitionResponse struct {
	Event           eventResponse   `json:"event"`
	Forced          bool            `json:"forced"`
	Justification   string          `json:"justification,omitempty"`
	Summary         summaryResponse `json:"summary"`
	FailingBlockers []checkResponse `json:"failing_blockers"`
}

type statsResponse struct {
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	BlockedTasks          int     `json:"blocked_tasks"`
	CriticalTasks         int     `json:"critical_tasks"`
	ParticipantsConfirmed int     `json:"participants_confirmed"`
	ParticipantsTotal     int     `json:"participants_total"`
	VisasPending          int     `json:"visas_pending"`
	BudgetPlanned         float64 `json:"budget_planned"`
	BudgetCommitted       float64 `json:"budget_committed"`
	BudgetPaid            float64 `json:"budget_paid"`
	DaysUntilEvent        *int    `json:"days_until_event"`
}

type workstreamProgressResponse struct {
	Type           readiness.WorkstreamType `json:"type"`
	Label          string                   `json:"label"`
	TotalTasks     int                      `json:"total_tasks"`
	CompletedTasks int                      `json:"completed_tasks"`
	BlockedTasks   int                      `json:"blocked_tasks"`
	Progress       int                      `json:"progress"`
	Status         readiness.ProgressStatus `json:"status" enums:"on-track,at-risk,blocked,complete"`
}

type dashboardResponse struct {
	EventID     string                       `json:"event_id"`
	Status      Status                       `json:"status"`
	Stats       statsResponse                `json:"stats"`
	Workstreams []workstreamProgressResponse `json:"workstreams"`
	ComputedAt  time.Time                    `json:"computed_at"`
}

// notReadyResponse se devuelve con 409 cuando el go-live es rechazado.
type notReadyResponse struct {
	Error           string          `json:"error"`
	Summary         summaryResponse `json:"summary"`
	FailingBlockers []checkResponse `json:"failing_blockers"`
}

// createEventHandler godoc
// @Summary Crear evento
// @Description Crea un evento en estado DRAFT y sus 14 workstreams por defecto. `X-Operator-ID` identifica al operador en la auditoría.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param payload body createEventRequest true "Datos del evento; selected_week en formato YYYY-MM-DD"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / selected_week inválido / reglas de negocio"
// @Router /events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		week, err := parseWeek(req.SelectedWeek)
		if err != nil {
			http.Error(w, "selected_week must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), operator(r), CreateInput{
			Name:          req.Name,
			Fund:          req.Fund,
			Country:       req.Country,
			City:          req.City,
			SelectedWeek:  week,
			BudgetPlanned: req.BudgetPlanned,
			Notes:         req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos
// @Tags events
// @Produce json
// @Param status query string false "Filtrar por estado (DRAFT, LOCKED, LIVE, CLOSED)"
// @Param fund query string false "Filtrar por fondo (IPAE_1, IPAE_2, IPAE_3)"
// @Param limit query int false "Máximo de eventos (1-200). Por defecto 50"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "filtro inválido"
// @Failure 500 {string} string "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Status: Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
			Fund:   Fund(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("fund")))),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getEventHandler godoc
// @Summary Obtener evento
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// updateEventHandler godoc
// @Summary Actualizar evento
// @Description Modifica nombre, ubicación, semana, presupuesto o notas. Un evento CLOSED no se puede editar.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a modificar"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "event is closed"
// @Router /events/{eventID} [patch]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateEventRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:          req.Name,
			Country:       req.Country,
			City:          req.City,
			BudgetPlanned: req.BudgetPlanned,
			Notes:         req.Notes,
		}
		if req.SelectedWeek != nil {
			week, err := parseWeek(*req.SelectedWeek)
			if err != nil {
				http.Error(w, "selected_week must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.SelectedWeek = week
			in.ClearWeek = week == nil
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), operator(r), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// deleteEventHandler godoc
// @Summary Eliminar evento
// @Description Borra el evento con participantes, proveedores, workstreams, tareas, visitas y presupuesto. Un evento LIVE no se puede borrar.
// @Tags events
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Success 204 "sin contenido"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "invalid status transition"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID} [delete]
func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "eventID"), operator(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler godoc
// @Summary Tablero del evento
// @Description Contadores de tareas, participantes y presupuesto, días hasta el evento y avance por workstream (on-track, at-risk, blocked, complete).
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} dashboardResponse
// @Failure 404 {string} string "event not found"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID}/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Stats(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDashboardResponse(d))
	}
}

// goNoGoHandler godoc
// @Summary Checklist go/no-go
// @Description Evalúa los 10 checks de preparación (blockers y warnings) sobre el estado actual del evento. can_go_live es true solo si todos los blockers pasan.
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} goNoGoResponse
// @Failure 404 {string} string "event not found"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID}/go-no-go [get]
func goNoGoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := svc.Evaluate(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, goNoGoResponse{
			EventID:     ev.EventID,
			Status:      ev.Status,
			Checks:      toCheckResponses(ev.Checks),
			Summary:     toSummaryResponse(ev.Summary),
			EvaluatedAt: ev.EvaluatedAt,
		})
	}
}

// lockEventHandler godoc
// @Summary Bloquear planificación
// @Description DRAFT -> LOCKED.
// @Tags events
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /events/{eventID}/lock [post]
func lockEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Lock(r.Context(), chi.URLParam(r, "eventID"), operator(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// goLiveHandler godoc
// @Summary Pasar a LIVE
// @Description LOCKED -> LIVE solo si todos los blockers del go/no-go pasan. Si alguno falla responde 409 con la lista de blockers.
// @Tags events
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} transitionResponse
// @Failure 404 {string} string "event not found"
// @Failure 409 {object} notReadyResponse
// @Router /events/{eventID}/go-live [post]
func goLiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, verdict, err := svc.GoLive(r.Context(), chi.URLParam(r, "eventID"), operator(r))
		if errors.Is(err, ErrNotReady) {
			writeJSON(w, http.StatusConflict, notReadyResponse{
				Error:           err.Error(),
				Summary:         toSummaryResponse(verdict.Summary),
				FailingBlockers: toCheckResponses(verdict.FailingBlockers),
			})
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransitionResponse(e, verdict))
	}
}

// forceGoLiveHandler godoc
// @Summary Forzar paso a LIVE
// @Description LOCKED -> LIVE ignorando blockers. Requiere justificación no vacía; queda registrada en la auditoría con los checks del momento.
// @Tags events
// @Accept json
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Param payload body forceGoLiveRequest true "Justificación"
// @Success 200 {object} transitionResponse
// @Failure 400 {string} string "justification required"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /events/{eventID}/force-go-live [post]
func forceGoLiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forceGoLiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, verdict, err := svc.ForceGoLive(r.Context(), chi.URLParam(r, "eventID"), operator(r), req.Justification)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransitionResponse(e, verdict))
	}
}

// closeEventHandler godoc
// @Summary Cerrar evento
// @Description LIVE -> CLOSED.
// @Tags events
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /events/{eventID}/close [post]
func closeEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Close(r.Context(), chi.URLParam(r, "eventID"), operator(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func operator(r *http.Request) string {
	id, _ := middleware.GetOperator(r.Context())
	return id
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, readiness.ErrJustificationRequired):
		http.Error(w, "justification required", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "event not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState), errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseWeek: "" => nil.
func parseWeek(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toEventResponse(e Event) eventResponse {
	var week *string
	if e.SelectedWeek != nil {
		s := e.SelectedWeek.Format("2006-01-02")
		week = &s
	}
	return eventResponse{
		ID:            e.ID,
		Name:          e.Name,
		Fund:          e.Fund,
		Country:       e.Country,
		City:          e.City,
		SelectedWeek:  week,
		Status:        e.Status,
		BudgetPlanned: e.BudgetPlanned,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		LockedAt:      e.LockedAt,
		LiveAt:        e.LiveAt,
		ClosedAt:      e.ClosedAt,
	}
}

func toDashboardResponse(d Dashboard) dashboardResponse {
	st := d.Stats
	out := dashboardResponse{
		EventID: d.EventID,
		Status:  d.Status,
		Stats: statsResponse{
			TotalTasks:            st.TotalTasks,
			CompletedTasks:        st.CompletedTasks,
			BlockedTasks:          st.BlockedTasks,
			CriticalTasks:         st.CriticalTasks,
			ParticipantsConfirmed: st.ParticipantsConfirmed,
			ParticipantsTotal:     st.ParticipantsTotal,
			VisasPending:          st.VisasPending,
			BudgetPlanned:         st.BudgetPlanned,
			BudgetCommitted:       st.BudgetCommitted,
			BudgetPaid:            st.BudgetPaid,
			DaysUntilEvent:        st.DaysUntilEvent,
		},
		Workstreams: make([]workstreamProgressResponse, 0, len(d.Workstreams)),
		ComputedAt:  d.ComputedAt,
	}
	for _, p := range d.Workstreams {
		out.Workstreams = append(out.Workstreams, workstreamProgressResponse{
			Type:           p.Type,
			Label:          p.Label,
			TotalTasks:     p.TotalTasks,
			CompletedTasks: p.CompletedTasks,
			BlockedTasks:   p.BlockedTasks,
			Progress:       p.Progress,
			Status:         p.Status,
		})
	}
	return out
}

func toCheckResponses(checks []readiness.Check) []checkResponse {
	out := make([]checkResponse, 0, len(checks))
	for _, c := range checks {
		out = append(out, checkResponse{
			ID:          c.ID,
			Label:       c.Label,
			Description: c.Description,
			Severity:    c.Severity,
			Passed:      c.Passed,
			Details:     c.Details,
		})
	}
	return out
}

func toSummaryResponse(s readiness.Summary) summaryResponse {
	return summaryResponse{
		BlockersPassed: s.BlockersPassed,
		BlockersTotal:  s.BlockersTotal,
		WarningsPassed: s.WarningsPassed,
		WarningsTotal:  s.WarningsTotal,
		CanGoLive:      s.CanGoLive,
	}
}

func toTransitionResponse(e Event, v readiness.Verdict) transitionResponse {
	return transitionResponse{
		Event:           toEventResponse(e),
		Forced:          v.Forced,
		Justification:   v.Justification,
		Summary:         toSummaryResponse(v.Summary),
		FailingBlockers: toCheckResponses(v.FailingBlockers),
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
