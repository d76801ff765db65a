package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/events/{eventID}/audit", listAuditHandler(svc))
}

// entryResponse es una entrada del log de auditoría devuelta por la API.
type entryResponse struct {
	ID         string          `json:"id"`
	Action     Action          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	UserID     string          `json:"user_id,omitempty"`
	EventID    string          `json:"event_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// listAuditHandler godoc
// @Summary Listar auditoría de un evento
// @Description Devuelve las entradas de auditoría del evento (cambios de estado, go-live forzado, generaciones IA), más recientes primero.
// @Tags audit
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param limit query int false "Máximo de entradas (1-500). Por defecto 100"
// @Success 200 {array} entryResponse
// @Failure 400 {string} string "invalid input"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID}/audit [get]
func listAuditHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		items, err := svc.ListByEvent(r.Context(), chi.URLParam(r, "eventID"), limit)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				ID:         e.ID,
				Action:     e.Action,
				EntityType: e.EntityType,
				EntityID:   e.EntityID,
				Changes:    e.Changes,
				UserID:     e.UserID,
				EventID:    e.EventID,
				CreatedAt:  e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
