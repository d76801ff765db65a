package logistics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"advisory-events/internal/domain/readiness"

	"github.com/go-chi/chi/v5"
)

// EventLookup evita importar el paquete events (rompe ciclos).
type EventLookup interface {
	Exists(ctx context.Context, eventID string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, events EventLookup) {
	r.Post("/events/{eventID}/participants", createParticipantHandler(svc, events))
	r.Get("/events/{eventID}/participants", listParticipantsHandler(svc, events))
	r.Patch("/events/{eventID}/participants/{participantID}", updateParticipantHandler(svc, events))
	r.Delete("/events/{eventID}/participants/{participantID}", deleteParticipantHandler(svc, events))
	r.Post("/events/{eventID}/participants/bulk-rsvp", bulkRSVPHandler(svc, events))

	r.Post("/events/{eventID}/vendors", createVendorHandler(svc, events))
	r.Get("/events/{eventID}/vendors", listVendorsHandler(svc, events))
	r.Patch("/events/{eventID}/vendors/{vendorID}", updateVendorHandler(svc, events))

	// Workstreams se crean junto con el evento; aquí solo se listan con sus tareas.
	r.Get("/events/{eventID}/workstreams", listWorkstreamsHandler(svc, events))
	r.Post("/events/{eventID}/workstreams/{workstreamID}/tasks", createTaskHandler(svc, events))
	r.Get("/events/{eventID}/tasks/blocking", blockingTasksHandler(svc, events))
	r.Post("/events/{eventID}/tasks/bulk-status", bulkTaskStatusHandler(svc, events))
	r.Patch("/events/{eventID}/tasks/{taskID}", updateTaskHandler(svc, events))
	r.Delete("/events/{eventID}/tasks/{taskID}", deleteTaskHandler(svc, events))

	r.Post("/events/{eventID}/company-visits", createCompanyVisitHandler(svc, events))
	r.Get("/events/{eventID}/company-visits", listCompanyVisitsHandler(svc, events))
	r.Patch("/events/{eventID}/company-visits/{visitID}", updateCompanyVisitHandler(svc, events))

	r.Post("/events/{eventID}/budget-lines", createBudgetLineHandler(svc, events))
	r.Get("/events/{eventID}/budget-lines", listBudgetLinesHandler(svc, events))
}

// -------------------------
// Requests / responses
// -------------------------

type createParticipantRequest struct {
	Name                string                    `json:"name"`
	Organization        string                    `json:"organization"`
	Email               string                    `json:"email"`
	Role                readiness.ParticipantRole `json:"role" enums:"LP,AC_MEMBER,AB_MEMBER,IP_TEAM,LOCAL_TEAM,ECOSYSTEM"`
	Language            Language                  `json:"language"` // FR | EN, opcional
	NeedsVisa           bool                      `json:"needs_visa"`
	VisaStatus          readiness.VisaStatus      `json:"visa_status"`
	RSVPStatus          readiness.RSVPStatus      `json:"rsvp_status"`
	DietaryRestrictions string                    `json:"dietary_restrictions"`
	SpecialNeeds        string                    `json:"special_needs"`
	HotelAssigned       string                    `json:"hotel_assigned"`
}

type updateParticipantRequest struct {
	NeedsVisa     *bool                 `json:"needs_visa"`
	VisaStatus    *readiness.VisaStatus `json:"visa_status"`
	RSVPStatus    *readiness.RSVPStatus `json:"rsvp_status"`
	HotelAssigned *string               `json:"hotel_assigned"`
}

type participantResponse struct {
	ID                  string                    `json:"id"`
	EventID             string                    `json:"event_id"`
	Name                string                    `json:"name"`
	Organization        string                    `json:"organization"`
	Email               string                    `json:"email"`
	Role                readiness.ParticipantRole `json:"role"`
	Language            Language                  `json:"language"`
	NeedsVisa           bool                      `json:"needs_visa"`
	VisaStatus          readiness.VisaStatus      `json:"visa_status,omitempty"`
	RSVPStatus          readiness.RSVPStatus      `json:"rsvp_status"`
	DietaryRestrictions string                    `json:"dietary_restrictions,omitempty"`
	SpecialNeeds        string                    `json:"special_needs,omitempty"`
	HotelAssigned       string                    `json:"hotel_assigned,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

type createVendorRequest struct {
	Category       readiness.VendorCategory `json:"category" enums:"HOTEL,TRANSPORT,AV_EQUIPMENT,TRANSLATION,RESTAURANT,MEET_GREET,SIM_CARDS,SECURITY,OTHER"`
	Name           string                   `json:"name"`
	ContactName    string                   `json:"contact_name"`
	ContactEmail   string                   `json:"contact_email"`
	ContactPhone   string                   `json:"contact_phone"`
	QuoteReceived  bool                     `json:"quote_received"`
	ContractSigned bool                     `json:"contract_signed"`
	Status         VendorStatus             `json:"status"`
	Notes          string                   `json:"notes"`
}

type updateVendorRequest struct {
	QuoteReceived  *bool         `json:"quote_received"`
	ContractSigned *bool         `json:"contract_signed"`
	Status         *VendorStatus `json:"status"`
	Notes          *string       `json:"notes"`
}

type vendorResponse struct {
	ID             string                   `json:"id"`
	EventID        string                   `json:"event_id"`
	Category       readiness.VendorCategory `json:"category"`
	Name           string                   `json:"name"`
	ContactName    string                   `json:"contact_name,omitempty"`
	ContactEmail   string                   `json:"contact_email,omitempty"`
	ContactPhone   string                   `json:"contact_phone,omitempty"`
	QuoteReceived  bool                     `json:"quote_received"`
	ContractSigned bool                     `json:"contract_signed"`
	Status         VendorStatus             `json:"status"`
	Notes          string                   `json:"notes,omitempty"`
}

type createTaskRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Deadline    string                `json:"deadline"` // YYYY-MM-DD opcional
	Status      readiness.TaskStatus  `json:"status"`
	Criticality readiness.Criticality `json:"criticality" enums:"LOW,MEDIUM,HIGH,BLOCKING"`
	Notes       string                `json:"notes"`
}

type updateTaskRequest struct {
	Title       *string                `json:"title"`
	Status      *readiness.TaskStatus  `json:"status"`
	Criticality *readiness.Criticality `json:"criticality"`
	Notes       *string                `json:"notes"`
}

type taskResponse struct {
	ID           string                `json:"id"`
	WorkstreamID string                `json:"workstream_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Deadline     *time.Time            `json:"deadline,omitempty"`
	Status       readiness.TaskStatus  `json:"status"`
	Criticality  readiness.Criticality `json:"criticality,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// blockingTaskResponse: tarea BLOCKING/HIGH abierta con su workstream.
type blockingTaskResponse struct {
	taskResponse
	WorkstreamType  readiness.WorkstreamType `json:"workstream_type"`
	WorkstreamLabel string                   `json:"workstream_label"`
}

type bulkRSVPRequest struct {
	ParticipantIDs []string             `json:"participant_ids"`
	RSVPStatus     readiness.RSVPStatus `json:"rsvp_status" enums:"PENDING,CONFIRMED,DECLINED,TENTATIVE"`
}

type bulkTaskStatusRequest struct {
	TaskIDs []string             `json:"task_ids"`
	Status  readiness.TaskStatus `json:"status" enums:"NOT_STARTED,IN_PROGRESS,BLOCKED,DONE"`
}

type bulkUpdateResponse struct {
	Updated int `json:"updated"`
}

type workstreamResponse struct {
	ID      string                   `json:"id"`
	EventID string                   `json:"event_id"`
	Type    readiness.WorkstreamType `json:"type"`
	OwnerID string                   `json:"owner_id,omitempty"`
	Notes   string                   `json:"notes,omitempty"`
	Tasks   []taskResponse           `json:"tasks"`
}

type createCompanyVisitRequest struct {
	CompanyName        string          `json:"company_name"`
	PortfolioStatus    PortfolioStatus `json:"portfolio_status"`
	Address            string          `json:"address"`
	MaxCapacity        int             `json:"max_capacity"`
	SpaceConfirmed     bool            `json:"space_confirmed"`
	DeckReceived       bool            `json:"deck_received"`
	RunOfShowValidated bool            `json:"run_of_show_validated"`
	VisitDate          string          `json:"visit_date"` // YYYY-MM-DD opcional
	Notes              string          `json:"notes"`
}

type updateCompanyVisitRequest struct {
	SpaceConfirmed     *bool   `json:"space_confirmed"`
	DeckReceived       *bool   `json:"deck_received"`
	RunOfShowValidated *bool   `json:"run_of_show_validated"`
	Notes              *string `json:"notes"`
}

type companyVisitResponse struct {
	ID                 string          `json:"id"`
	EventID            string          `json:"event_id"`
	CompanyName        string          `json:"company_name"`
	PortfolioStatus    PortfolioStatus `json:"portfolio_status"`
	Address            string          `json:"address,omitempty"`
	MaxCapacity        int             `json:"max_capacity,omitempty"`
	SpaceConfirmed     bool            `json:"space_confirmed"`
	DeckReceived       bool            `json:"deck_received"`
	RunOfShowValidated bool            `json:"run_of_show_validated"`
	VisitDate          *time.Time      `json:"visit_date,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

type createBudgetLineRequest struct {
	WorkstreamType  readiness.WorkstreamType `json:"workstream_type"`
	Description     string                   `json:"description"`
	AmountPlanned   float64                  `json:"amount_planned"`
	AmountCommitted *float64                 `json:"amount_committed"`
	AmountPaid      *float64                 `json:"amount_paid"`
	Currency        string                   `json:"currency"`
	VendorID        string                   `json:"vendor_id"`
}

type budgetLineResponse struct {
	ID              string                   `json:"id"`
	EventID         string                   `json:"event_id"`
	WorkstreamType  readiness.WorkstreamType `json:"workstream_type"`
	Description     string                   `json:"description"`
	AmountPlanned   float64                  `json:"amount_planned"`
	AmountCommitted *float64                 `json:"amount_committed,omitempty"`
	AmountPaid      *float64                 `json:"amount_paid,omitempty"`
	Currency        string                   `json:"currency"`
	VendorID        string                   `json:"vendor_id,omitempty"`
}

// -------------------------
// Participants
// -------------------------

// createParticipantHandler godoc
// @Summary Agregar participante
// @Description Registra un participante (LP, miembro AC/AB, equipo...) en el evento. visa_status y rsvp_status alimentan los checks visas-approved y lp-confirmed.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body createParticipantRequest true "Datos del participante"
// @Success 201 {object} participantResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/participants [post]
func createParticipantHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}

		var req createParticipantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.AddParticipant(r.Context(), eventID, ParticipantInput{
			Name:                req.Name,
			Organization:        req.Organization,
			Email:               req.Email,
			Role:                req.Role,
			Language:            req.Language,
			NeedsVisa:           req.NeedsVisa,
			VisaStatus:          req.VisaStatus,
			RSVPStatus:          req.RSVPStatus,
			DietaryRestrictions: req.DietaryRestrictions,
			SpecialNeeds:        req.SpecialNeeds,
			HotelAssigned:       req.HotelAssigned,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toParticipantResponse(p))
	}
}

// listParticipantsHandler godoc
// @Summary Listar participantes
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} participantResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/participants [get]
func listParticipantsHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.ListParticipants(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]participantResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toParticipantResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateParticipantHandler godoc
// @Summary Actualizar visa / RSVP de un participante
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param participantID path string true "ID del participante"
// @Param payload body updateParticipantRequest true "Campos a modificar (null/ausente = no tocar)"
// @Success 200 {object} participantResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/participants/{participantID} [patch]
func updateParticipantHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req updateParticipantRequest
		if !decodePatch(w, r, &req) {
			return
		}
		p, err := svc.UpdateParticipant(r.Context(), eventID, chi.URLParam(r, "participantID"), ParticipantPatch{
			NeedsVisa:     req.NeedsVisa,
			VisaStatus:    req.VisaStatus,
			RSVPStatus:    req.RSVPStatus,
			HotelAssigned: req.HotelAssigned,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponse(p))
	}
}

// -------------------------
// Vendors
// -------------------------

// deleteParticipantHandler godoc
// @Summary Eliminar participante
// @Tags logistics
// @Param eventID path string true "ID del evento"
// @Param participantID path string true "ID del participante"
// @Success 204 "sin contenido"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/participants/{participantID} [delete]
func deleteParticipantHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		if err := svc.DeleteParticipant(r.Context(), eventID, chi.URLParam(r, "participantID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// bulkRSVPHandler godoc
// @Summary RSVP masivo
// @Description Aplica el mismo RSVP a varios participantes. Si algún ID no pertenece al evento no se modifica ninguno.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body bulkRSVPRequest true "IDs y RSVP"
// @Success 200 {object} bulkUpdateResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/participants/bulk-rsvp [post]
func bulkRSVPHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req bulkRSVPRequest
		if !decodePatch(w, r, &req) {
			return
		}
		n, err := svc.BulkUpdateRSVP(r.Context(), eventID, req.ParticipantIDs, req.RSVPStatus)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkUpdateResponse{Updated: n})
	}
}

// createVendorHandler godoc
// @Summary Agregar prestatario
// @Description Registra un prestatario (hotel, transporte, AV, traducción...). contract_signed alimenta hotel-contracted, av-confirmed y transport-confirmed.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body createVendorRequest true "Datos del prestatario"
// @Success 201 {object} vendorResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/vendors [post]
func createVendorHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req createVendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		v, err := svc.AddVendor(r.Context(), eventID, VendorInput{
			Category:       req.Category,
			Name:           req.Name,
			ContactName:    req.ContactName,
			ContactEmail:   req.ContactEmail,
			ContactPhone:   req.ContactPhone,
			QuoteReceived:  req.QuoteReceived,
			ContractSigned: req.ContractSigned,
			Status:         req.Status,
			Notes:          req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVendorResponse(v))
	}
}

// listVendorsHandler godoc
// @Summary Listar prestatarios
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} vendorResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/vendors [get]
func listVendorsHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.ListVendors(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]vendorResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVendorResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateVendorHandler godoc
// @Summary Actualizar contrato / estado de un prestatario
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param vendorID path string true "ID del prestatario"
// @Param payload body updateVendorRequest true "Campos a modificar"
// @Success 200 {object} vendorResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/vendors/{vendorID} [patch]
func updateVendorHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req updateVendorRequest
		if !decodePatch(w, r, &req) {
			return
		}
		v, err := svc.UpdateVendor(r.Context(), eventID, chi.URLParam(r, "vendorID"), VendorPatch{
			QuoteReceived:  req.QuoteReceived,
			ContractSigned: req.ContractSigned,
			Status:         req.Status,
			Notes:          req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVendorResponse(v))
	}
}

// -------------------------
// Workstreams & tasks
// -------------------------

// listWorkstreamsHandler godoc
// @Summary Listar workstreams con sus tareas
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} workstreamResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/workstreams [get]
func listWorkstreamsHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.ListWorkstreams(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]workstreamResponse, 0, len(items))
		for _, ws := range items {
			tasks := make([]taskResponse, 0, len(ws.Tasks))
			for _, t := range ws.Tasks {
				tasks = append(tasks, toTaskResponse(t))
			}
			out = append(out, workstreamResponse{
				ID:      ws.ID,
				EventID: ws.EventID,
				Type:    ws.Type,
				OwnerID: ws.OwnerID,
				Notes:   ws.Notes,
				Tasks:   tasks,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createTaskHandler godoc
// @Summary Crear tarea en un workstream
// @Description Tareas con criticality BLOCKING no terminadas hacen fallar no-blocking-tasks.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param workstreamID path string true "ID del workstream"
// @Param payload body createTaskRequest true "Datos de la tarea; deadline en formato YYYY-MM-DD"
// @Success 201 {object} taskResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/workstreams/{workstreamID}/tasks [post]
func createTaskHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		deadline, err := parseOptionalDate(req.Deadline)
		if err != nil {
			http.Error(w, "deadline must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		t, err := svc.AddTask(r.Context(), eventID, chi.URLParam(r, "workstreamID"), TaskInput{
			Title:       req.Title,
			Description: req.Description,
			Deadline:    deadline,
			Status:      req.Status,
			Criticality: req.Criticality,
			Notes:       req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTaskResponse(t))
	}
}

// updateTaskHandler godoc
// @Summary Actualizar estado / criticidad de una tarea
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param taskID path string true "ID de la tarea"
// @Param payload body updateTaskRequest true "Campos a modificar"
// @Success 200 {object} taskResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/tasks/{taskID} [patch]
func updateTaskHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req updateTaskRequest
		if !decodePatch(w, r, &req) {
			return
		}
		t, err := svc.UpdateTask(r.Context(), eventID, chi.URLParam(r, "taskID"), TaskPatch{
			Title:       req.Title,
			Status:      req.Status,
			Criticality: req.Criticality,
			Notes:       req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskResponse(t))
	}
}

// -------------------------
// Company visits
// -------------------------

// deleteTaskHandler godoc
// @Summary Eliminar tarea
// @Tags logistics
// @Param eventID path string true "ID del evento"
// @Param taskID path string true "ID de la tarea"
// @Success 204 "sin contenido"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/tasks/{taskID} [delete]
func deleteTaskHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		if err := svc.DeleteTask(r.Context(), eventID, chi.URLParam(r, "taskID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// bulkTaskStatusHandler godoc
// @Summary Cambio de estado masivo
// @Description Aplica el mismo estado a varias tareas. Si algún ID no pertenece al evento no se modifica ninguna.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body bulkTaskStatusRequest true "IDs y estado"
// @Success 200 {object} bulkUpdateResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/tasks/bulk-status [post]
func bulkTaskStatusHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req bulkTaskStatusRequest
		if !decodePatch(w, r, &req) {
			return
		}
		n, err := svc.BulkUpdateTaskStatus(r.Context(), eventID, req.TaskIDs, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkUpdateResponse{Updated: n})
	}
}

// blockingTasksHandler godoc
// @Summary Tareas bloqueantes abiertas
// @Description Tareas con criticidad BLOCKING o HIGH que no están DONE, en el orden de los workstreams.
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} blockingTaskResponse
// @Failure 404 {string} string "event not found"
// @Failure 500 {string} string "internal error"
// @Router /events/{eventID}/tasks/blocking [get]
func blockingTasksHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.BlockingTasks(r.Context(), eventID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]blockingTaskResponse, 0, len(items))
		for _, t := range items {
			out = append(out, blockingTaskResponse{
				taskResponse:    toTaskResponse(t.Task),
				WorkstreamType:  t.WorkstreamType,
				WorkstreamLabel: readiness.WorkstreamLabel(t.WorkstreamType),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createCompanyVisitHandler godoc
// @Summary Agregar visita de empresa
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body createCompanyVisitRequest true "Datos de la visita; visit_date en formato YYYY-MM-DD"
// @Success 201 {object} companyVisitResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/company-visits [post]
func createCompanyVisitHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req createCompanyVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		visitDate, err := parseOptionalDate(req.VisitDate)
		if err != nil {
			http.Error(w, "visit_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		v, err := svc.AddCompanyVisit(r.Context(), eventID, CompanyVisitInput{
			CompanyName:        req.CompanyName,
			PortfolioStatus:    req.PortfolioStatus,
			Address:            req.Address,
			MaxCapacity:        req.MaxCapacity,
			SpaceConfirmed:     req.SpaceConfirmed,
			DeckReceived:       req.DeckReceived,
			RunOfShowValidated: req.RunOfShowValidated,
			VisitDate:          visitDate,
			Notes:              req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCompanyVisitResponse(v))
	}
}

// listCompanyVisitsHandler godoc
// @Summary Listar visitas de empresas
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} companyVisitResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/company-visits [get]
func listCompanyVisitsHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.ListCompanyVisits(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]companyVisitResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toCompanyVisitResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateCompanyVisitHandler godoc
// @Summary Actualizar preparación de una visita
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param visitID path string true "ID de la visita"
// @Param payload body updateCompanyVisitRequest true "Campos a modificar"
// @Success 200 {object} companyVisitResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "not found"
// @Router /events/{eventID}/company-visits/{visitID} [patch]
func updateCompanyVisitHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req updateCompanyVisitRequest
		if !decodePatch(w, r, &req) {
			return
		}
		v, err := svc.UpdateCompanyVisit(r.Context(), eventID, chi.URLParam(r, "visitID"), CompanyVisitPatch{
			SpaceConfirmed:     req.SpaceConfirmed,
			DeckReceived:       req.DeckReceived,
			RunOfShowValidated: req.RunOfShowValidated,
			Notes:              req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCompanyVisitResponse(v))
	}
}

// -------------------------
// Budget
// -------------------------

// createBudgetLineHandler godoc
// @Summary Agregar línea de presupuesto
// @Description amount_committed (null = 0) se suma para el check budget-ok.
// @Tags logistics
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body createBudgetLineRequest true "Datos de la línea"
// @Success 201 {object} budgetLineResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/budget-lines [post]
func createBudgetLineHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		var req createBudgetLineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		b, err := svc.AddBudgetLine(r.Context(), eventID, BudgetLineInput{
			WorkstreamType:  req.WorkstreamType,
			Description:     req.Description,
			AmountPlanned:   req.AmountPlanned,
			AmountCommitted: req.AmountCommitted,
			AmountPaid:      req.AmountPaid,
			Currency:        req.Currency,
			VendorID:        req.VendorID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBudgetLineResponse(b))
	}
}

// listBudgetLinesHandler godoc
// @Summary Listar líneas de presupuesto
// @Tags logistics
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {array} budgetLineResponse
// @Failure 404 {string} string "event not found"
// @Router /events/{eventID}/budget-lines [get]
func listBudgetLinesHandler(svc *Service, events EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := requireEvent(w, r, events)
		if !ok {
			return
		}
		items, err := svc.ListBudgetLines(r.Context(), eventID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]budgetLineResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBudgetLineResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// -------------------------
// helpers
// -------------------------

func requireEvent(w http.ResponseWriter, r *http.Request, events EventLookup) (string, bool) {
	eventID := strings.TrimSpace(chi.URLParam(r, "eventID"))
	ok, err := events.Exists(r.Context(), eventID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", false
	}
	if !ok {
		http.Error(w, "event not found", http.StatusNotFound)
		return "", false
	}
	return eventID, true
}

func decodePatch(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
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

func toParticipantResponse(p Participant) participantResponse {
	return participantResponse{
		ID:                  p.ID,
		EventID:             p.EventID,
		Name:                p.Name,
		Organization:        p.Organization,
		Email:               p.Email,
		Role:                p.Role,
		Language:            p.Language,
		NeedsVisa:           p.NeedsVisa,
		VisaStatus:          p.VisaStatus,
		RSVPStatus:          p.RSVPStatus,
		DietaryRestrictions: p.DietaryRestrictions,
		SpecialNeeds:        p.SpecialNeeds,
		HotelAssigned:       p.HotelAssigned,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toVendorResponse(v Vendor) vendorResponse {
	return vendorResponse{
		ID:             v.ID,
		EventID:        v.EventID,
		Category:       v.Category,
		Name:           v.Name,
		ContactName:    v.ContactName,
		ContactEmail:   v.ContactEmail,
		ContactPhone:   v.ContactPhone,
		QuoteReceived:  v.QuoteReceived,
		ContractSigned: v.ContractSigned,
		Status:         v.Status,
		Notes:          v.Notes,
	}
}

func toTaskResponse(t Task) taskResponse {
	return taskResponse{
		ID:           t.ID,
		WorkstreamID: t.WorkstreamID,
		Title:        t.Title,
		Description:  t.Description,
		Deadline:     t.Deadline,
		Status:       t.Status,
		Criticality:  t.Criticality,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toCompanyVisitResponse(v CompanyVisit) companyVisitResponse {
	return companyVisitResponse{
		ID:                 v.ID,
		EventID:            v.EventID,
		CompanyName:        v.CompanyName,
		PortfolioStatus:    v.PortfolioStatus,
		Address:            v.Address,
		MaxCapacity:        v.MaxCapacity,
		SpaceConfirmed:     v.SpaceConfirmed,
		DeckReceived:       v.DeckReceived,
		RunOfShowValidated: v.RunOfShowValidated,
		VisitDate:          v.VisitDate,
		Notes:              v.Notes,
	}
}

func toBudgetLineResponse(b BudgetLine) budgetLineResponse {
	return budgetLineResponse{
		ID:              b.ID,
		EventID:         b.EventID,
		WorkstreamType:  b.WorkstreamType,
		Description:     b.Description,
		AmountPlanned:   b.AmountPlanned,
		AmountCommitted: b.AmountCommitted,
		AmountPaid:      b.AmountPaid,
		Currency:        b.Currency,
		VendorID:        b.VendorID,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
