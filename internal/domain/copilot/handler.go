package copilot

import (
	"encoding/json"
	"errors"
	"net/http"

	"advisory-events/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/ai/generate", generateHandler(svc))
}

type generateRequest struct {
	Action   Action         `json:"action"`
	Language Language       `json:"language"`
	EventID  string         `json:"event_id,omitempty"`
	Context  map[string]any `json:"context"`
}

type generateMetadata struct {
	TokensUsed int    `json:"tokens_used"`
	Model      string `json:"model"`
}

type generateResponse struct {
	Success  bool             `json:"success"`
	Content  string           `json:"content"`
	Metadata generateMetadata `json:"metadata"`
}

// generateHandler godoc
// @Summary Generar texto con IA
// @Description Redacta relances RSVP, cartas de visa, pedidos de deck o un análisis de riesgos (FR/EN). Con event_id, el análisis de riesgos usa el checklist go/no-go del evento y la generación queda auditada.
// @Tags ai
// @Accept json
// @Produce json
// @Param X-Operator-ID header string false "ID del operador (auditoría)"
// @Param payload body generateRequest true "action: generate-rsvp-reminder | generate-visa-letter | generate-deck-request | generate-risk-analysis"
// @Success 200 {object} generateResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "event not found"
// @Failure 502 {string} string "ai upstream error"
// @Failure 503 {string} string "ai generation not configured"
// @Router /ai/generate [post]
func generateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		actor, _ := middleware.GetOperator(r.Context())
		res, err := svc.Generate(r.Context(), actor, Request{
			Action:   req.Action,
			Language: req.Language,
			EventID:  req.EventID,
			Context:  req.Context,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrEventNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, ErrNotConfigured):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			default:
				http.Error(w, "ai upstream error", http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			Success: true,
			Content: res.Content,
			Metadata: generateMetadata{
				TokensUsed: res.TokensUsed,
				Model:      res.Model,
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
