package logistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"advisory-events/internal/domain/readiness"
	"advisory-events/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"component": "logistics"}),
		now:  time.Now,
	}
}

// lookupErr deja pasar ErrNotFound y envuelve cualquier otro fallo del repo.
func lookupErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("logistics lookup: %w", err)
}

// -------------------------
// Participants
// -------------------------

type ParticipantInput struct {
	Name                string
	Organization        string
	Email               string
	Role                readiness.ParticipantRole
	Language            Language
	NeedsVisa           bool
	VisaStatus          readiness.VisaStatus
	RSVPStatus          readiness.RSVPStatus
	DietaryRestrictions string
	SpecialNeeds        string
	HotelAssigned       string
}

func (s *Service) AddParticipant(ctx context.Context, eventID string, in ParticipantInput) (Participant, error) {
	eventID = strings.TrimSpace(eventID)
	name := strings.TrimSpace(in.Name)
	if eventID == "" || name == "" || !in.Role.Valid() || !in.VisaStatus.Valid() {
		return Participant{}, ErrInvalidInput
	}

	rsvp := in.RSVPStatus
	if rsvp == "" {
		rsvp = readiness.RSVPPending
	}
	if !rsvp.Valid() {
		return Participant{}, ErrInvalidInput
	}
	lang := in.Language
	if lang == "" {
		lang = LanguageEN
	}
	if !lang.Valid() {
		return Participant{}, ErrInvalidInput
	}

	now := s.now()
	p := Participant{
		ID:                  uuid.NewString(),
		EventID:             eventID,
		Name:                name,
		Organization:        strings.TrimSpace(in.Organization),
		Email:               strings.TrimSpace(in.Email),
		Role:                in.Role,
		Language:            lang,
		NeedsVisa:           in.NeedsVisa,
		VisaStatus:          in.VisaStatus,
		RSVPStatus:          rsvp,
		DietaryRestrictions: strings.TrimSpace(in.DietaryRestrictions),
		SpecialNeeds:        strings.TrimSpace(in.SpecialNeeds),
		HotelAssigned:       strings.TrimSpace(in.HotelAssigned),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return Participant{}, err
	}
	return p, nil
}

// ParticipantPatch: punteros para PATCH real, nil = no tocar.
type ParticipantPatch struct {
	NeedsVisa     *bool
	VisaStatus    *readiness.VisaStatus
	RSVPStatus    *readiness.RSVPStatus
	HotelAssigned *string
}

func (s *Service) UpdateParticipant(ctx context.Context, eventID, participantID string, in ParticipantPatch) (Participant, error) {
	p, err := s.participantOf(ctx, eventID, participantID)
	if err != nil {
		return Participant{}, err
	}

	if in.NeedsVisa != nil {
		p.NeedsVisa = *in.NeedsVisa
	}
	if in.VisaStatus != nil {
		if !in.VisaStatus.Valid() {
			return Participant{}, ErrInvalidInput
		}
		p.VisaStatus = *in.VisaStatus
	}
	if in.RSVPStatus != nil {
		if !in.RSVPStatus.Valid() {
			return Participant{}, ErrInvalidInput
		}
		p.RSVPStatus = *in.RSVPStatus
	}
	if in.HotelAssigned != nil {
		p.HotelAssigned = strings.TrimSpace(*in.HotelAssigned)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return Participant{}, err
	}
	return p, nil
}

func (s *Service) ListParticipants(ctx context.Context, eventID string) ([]Participant, error) {
	return s.repo.ListParticipants(ctx, strings.TrimSpace(eventID))
}

func (s *Service) participantOf(ctx context.Context, eventID, participantID string) (Participant, error) {
	p, err := s.repo.GetParticipant(ctx, strings.TrimSpace(participantID))
	if err != nil {
		return Participant{}, lookupErr(err)
	}
	if p.EventID != eventID {
		return Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) DeleteParticipant(ctx context.Context, eventID, participantID string) error {
	p, err := s.participantOf(ctx, eventID, participantID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteParticipant(ctx, p.ID); err != nil {
		return err
	}
	s.log.Info("participant deleted", map[string]any{"event_id": eventID, "participant_id": p.ID})
	return nil
}

// BulkUpdateRSVP aplica el mismo RSVP a varios participantes del evento.
// Todo o nada: si un ID no es del evento no se toca ninguno.
func (s *Service) BulkUpdateRSVP(ctx context.Context, eventID string, ids []string, status readiness.RSVPStatus) (int, error) {
	eventID = strings.TrimSpace(eventID)
	ids = uniqueIDs(ids)
	if eventID == "" || len(ids) == 0 || !status.Valid() {
		return 0, ErrInvalidInput
	}
	if err := s.repo.UpdateParticipantsRSVP(ctx, eventID, ids, status, s.now()); err != nil {
		return 0, err
	}
	s.log.Info("participants rsvp updated", map[string]any{
		"event_id": eventID,
		"count":    len(ids),
		"rsvp":     string(status),
	})
	return len(ids), nil
}

// -------------------------
// Vendors
// -------------------------

type VendorInput struct {
	Category       readiness.VendorCategory
	Name           string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	QuoteReceived  bool
	ContractSigned bool
	Status         VendorStatus
	Notes          string
}

func (s *Service) AddVendor(ctx context.Context, eventID string, in VendorInput) (Vendor, error) {
	eventID = strings.TrimSpace(eventID)
	name := strings.TrimSpace(in.Name)
	if eventID == "" || name == "" || !in.Category.Valid() {
		return Vendor{}, ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = VendorProspecting
	}
	if !status.Valid() {
		return Vendor{}, ErrInvalidInput
	}

	v := Vendor{
		ID:             uuid.NewString(),
		EventID:        eventID,
		Category:       in.Category,
		Name:           name,
		ContactName:    strings.TrimSpace(in.ContactName),
		ContactEmail:   strings.TrimSpace(in.ContactEmail),
		ContactPhone:   strings.TrimSpace(in.ContactPhone),
		QuoteReceived:  in.QuoteReceived,
		ContractSigned: in.ContractSigned,
		Status:         status,
		Notes:          strings.TrimSpace(in.Notes),
	}

	if err := s.repo.CreateVendor(ctx, v); err != nil {
		return Vendor{}, err
	}
	return v, nil
}

type VendorPatch struct {
	QuoteReceived  *bool
	ContractSigned *bool
	Status         *VendorStatus
	Notes          *string
}

func (s *Service) UpdateVendor(ctx context.Context, eventID, vendorID string, in VendorPatch) (Vendor, error) {
	v, err := s.repo.GetVendor(ctx, strings.TrimSpace(vendorID))
	if err != nil {
		return Vendor{}, lookupErr(err)
	}
	if v.EventID != eventID {
		return Vendor{}, ErrNotFound
	}

	if in.QuoteReceived != nil {
		v.QuoteReceived = *in.QuoteReceived
	}
	if in.ContractSigned != nil {
		v.ContractSigned = *in.ContractSigned
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Vendor{}, ErrInvalidInput
		}
		v.Status = *in.Status
	}
	if in.Notes != nil {
		v.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.UpdateVendor(ctx, v); err != nil {
		return Vendor{}, err
	}
	return v, nil
}

func (s *Service) ListVendors(ctx context.Context, eventID string) ([]Vendor, error) {
	return s.repo.ListVendors(ctx, strings.TrimSpace(eventID))
}

// -------------------------
// Workstreams & tasks
// -------------------------

// SeedWorkstreams crea un workstream por cada tipo canónico.
func (s *Service) SeedWorkstreams(ctx context.Context, eventID string) error {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ErrInvalidInput
	}
	ws := make([]Workstream, 0, len(readiness.WorkstreamTypes))
	for _, t := range readiness.WorkstreamTypes {
		ws = append(ws, Workstream{
			ID:      uuid.NewString(),
			EventID: eventID,
			Type:    t,
		})
	}
	return s.repo.CreateWorkstreams(ctx, ws)
}

// ListWorkstreams devuelve los workstreams del evento con sus tareas,
// en el orden canónico de tipos.
func (s *Service) ListWorkstreams(ctx context.Context, eventID string) ([]WorkstreamWithTasks, error) {
	eventID = strings.TrimSpace(eventID)
	ws, err := s.repo.ListWorkstreams(ctx, eventID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byWorkstream := map[string][]Task{}
	for _, t := range tasks {
		byWorkstream[t.WorkstreamID] = append(byWorkstream[t.WorkstreamID], t)
	}

	out := make([]WorkstreamWithTasks, 0, len(ws))
	for _, w := range ws {
		out = append(out, WorkstreamWithTasks{Workstream: w, Tasks: byWorkstream[w.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return workstreamRank(out[i].Type) < workstreamRank(out[j].Type)
	})
	return out, nil
}

type TaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Status      readiness.TaskStatus
	Criticality readiness.Criticality
	Notes       string
}

func (s *Service) AddTask(ctx context.Context, eventID, workstreamID string, in TaskInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, ErrInvalidInput
	}

	w, err := s.repo.GetWorkstream(ctx, strings.TrimSpace(workstreamID))
	if err != nil {
		return Task{}, lookupErr(err)
	}
	if w.EventID != eventID {
		return Task{}, ErrNotFound
	}

	status := in.Status
	if status == "" {
		status = readiness.TaskNotStarted
	}
	crit := in.Criticality
	if crit == "" {
		crit = readiness.CriticalityMedium
	}
	if !status.Valid() || !crit.Valid() {
		return Task{}, ErrInvalidInput
	}

	now := s.now()
	t := Task{
		ID:           uuid.NewString(),
		EventID:      w.EventID,
		WorkstreamID: w.ID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Deadline:     in.Deadline,
		Status:       status,
		Criticality:  crit,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

type TaskPatch struct {
	Title       *string
	Status      *readiness.TaskStatus
	Criticality *readiness.Criticality
	Notes       *string
}

func (s *Service) UpdateTask(ctx context.Context, eventID, taskID string, in TaskPatch) (Task, error) {
	t, err := s.taskOf(ctx, eventID, taskID)
	if err != nil {
		return Task{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Task{}, ErrInvalidInput
		}
		t.Title = title
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Task{}, ErrInvalidInput
		}
		t.Status = *in.Status
	}
	if in.Criticality != nil {
		if !in.Criticality.Valid() {
			return Task{}, ErrInvalidInput
		}
		t.Criticality = *in.Criticality
	}
	if in.Notes != nil {
		t.Notes = strings.TrimSpace(*in.Notes)
	}
	t.UpdatedAt = s.now()

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) taskOf(ctx context.Context, eventID, taskID string) (Task, error) {
	t, err := s.repo.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return Task{}, lookupErr(err)
	}
	if t.EventID != eventID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, eventID, taskID string) error {
	t, err := s.taskOf(ctx, eventID, taskID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, t.ID); err != nil {
		return err
	}
	s.log.Info("task deleted", map[string]any{"event_id": eventID, "task_id": t.ID})
	return nil
}

// BulkUpdateTaskStatus aplica el mismo estado a varias tareas del evento.
// Todo o nada, igual que BulkUpdateRSVP.
func (s *Service) BulkUpdateTaskStatus(ctx context.Context, eventID string, ids []string, status readiness.TaskStatus) (int, error) {
	eventID = strings.TrimSpace(eventID)
	ids = uniqueIDs(ids)
	if eventID == "" || len(ids) == 0 || !status.Valid() {
		return 0, ErrInvalidInput
	}
	if err := s.repo.UpdateTasksStatus(ctx, eventID, ids, status, s.now()); err != nil {
		return 0, err
	}
	s.log.Info("tasks status updated", map[string]any{
		"event_id": eventID,
		"count":    len(ids),
		"status":   string(status),
	})
	return len(ids), nil
}

// BlockingTask es una tarea BLOCKING o HIGH aún abierta, con su workstream.
type BlockingTask struct {
	Task
	WorkstreamType readiness.WorkstreamType
}

// BlockingTasks lista las tareas que requieren atención, en el orden
// canónico de workstreams y luego por alta.
func (s *Service) BlockingTasks(ctx context.Context, eventID string) ([]BlockingTask, error) {
	ws, err := s.ListWorkstreams(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]BlockingTask, 0)
	for _, w := range ws {
		for _, t := range w.Tasks {
			if readiness.NeedsAttention(readiness.Task{Status: t.Status, Criticality: t.Criticality}) {
				out = append(out, BlockingTask{Task: t, WorkstreamType: w.Type})
			}
		}
	}
	return out, nil
}

// -------------------------
// Company visits
// -------------------------

type CompanyVisitInput struct {
	CompanyName        string
	PortfolioStatus    PortfolioStatus
	Address            string
	MaxCapacity        int
	SpaceConfirmed     bool
	DeckReceived       bool
	RunOfShowValidated bool
	VisitDate          *time.Time
	Notes              string
}

func (s *Service) AddCompanyVisit(ctx context.Context, eventID string, in CompanyVisitInput) (CompanyVisit, error) {
	eventID = strings.TrimSpace(eventID)
	name := strings.TrimSpace(in.CompanyName)
	if eventID == "" || name == "" || in.MaxCapacity < 0 {
		return CompanyVisit{}, ErrInvalidInput
	}
	ps := in.PortfolioStatus
	if ps == "" {
		ps = PortfolioCurrent
	}
	if !ps.Valid() {
		return CompanyVisit{}, ErrInvalidInput
	}

	v := CompanyVisit{
		ID:                 uuid.NewString(),
		EventID:            eventID,
		CompanyName:        name,
		PortfolioStatus:    ps,
		Address:            strings.TrimSpace(in.Address),
		MaxCapacity:        in.MaxCapacity,
		SpaceConfirmed:     in.SpaceConfirmed,
		DeckReceived:       in.DeckReceived,
		RunOfShowValidated: in.RunOfShowValidated,
		VisitDate:          in.VisitDate,
		Notes:              strings.TrimSpace(in.Notes),
	}
	if err := s.repo.CreateCompanyVisit(ctx, v); err != nil {
		return CompanyVisit{}, err
	}
	return v, nil
}

type CompanyVisitPatch struct {
	SpaceConfirmed     *bool
	DeckReceived       *bool
	RunOfShowValidated *bool
	Notes              *string
}

func (s *Service) UpdateCompanyVisit(ctx context.Context, eventID, visitID string, in CompanyVisitPatch) (CompanyVisit, error) {
	v, err := s.repo.GetCompanyVisit(ctx, strings.TrimSpace(visitID))
	if err != nil {
		return CompanyVisit{}, lookupErr(err)
	}
	if v.EventID != eventID {
		return CompanyVisit{}, ErrNotFound
	}

	if in.SpaceConfirmed != nil {
		v.SpaceConfirmed = *in.SpaceConfirmed
	}
	if in.DeckReceived != nil {
		v.DeckReceived = *in.DeckReceived
	}
	if in.RunOfShowValidated != nil {
		v.RunOfShowValidated = *in.RunOfShowValidated
	}
	if in.Notes != nil {
		v.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.UpdateCompanyVisit(ctx, v); err != nil {
		return CompanyVisit{}, err
	}
	return v, nil
}

func (s *Service) ListCompanyVisits(ctx context.Context, eventID string) ([]CompanyVisit, error) {
	return s.repo.ListCompanyVisits(ctx, strings.TrimSpace(eventID))
}

// -------------------------
// Budget
// -------------------------

type BudgetLineInput struct {
	WorkstreamType  readiness.WorkstreamType
	Description     string
	AmountPlanned   float64
	AmountCommitted *float64
	AmountPaid      *float64
	Currency        string
	VendorID        string
}

func (s *Service) AddBudgetLine(ctx context.Context, eventID string, in BudgetLineInput) (BudgetLine, error) {
	eventID = strings.TrimSpace(eventID)
	desc := strings.TrimSpace(in.Description)
	if eventID == "" || desc == "" || !readiness.IsWorkstreamType(in.WorkstreamType) {
		return BudgetLine{}, ErrInvalidInput
	}
	if in.AmountPlanned < 0 || negative(in.AmountCommitted) || negative(in.AmountPaid) {
		return BudgetLine{}, ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "EUR"
	}

	vendorID := strings.TrimSpace(in.VendorID)
	if vendorID != "" {
		v, err := s.repo.GetVendor(ctx, vendorID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return BudgetLine{}, lookupErr(err)
		}
		if err != nil || v.EventID != eventID {
			return BudgetLine{}, fmt.Errorf("%w: unknown vendor", ErrInvalidInput)
		}
	}

	b := BudgetLine{
		ID:              uuid.NewString(),
		EventID:         eventID,
		WorkstreamType:  in.WorkstreamType,
		Description:     desc,
		AmountPlanned:   in.AmountPlanned,
		AmountCommitted: in.AmountCommitted,
		AmountPaid:      in.AmountPaid,
		Currency:        currency,
		VendorID:        vendorID,
	}
	if err := s.repo.CreateBudgetLine(ctx, b); err != nil {
		return BudgetLine{}, err
	}
	return b, nil
}

func (s *Service) ListBudgetLines(ctx context.Context, eventID string) ([]BudgetLine, error) {
	return s.repo.ListBudgetLines(ctx, strings.TrimSpace(eventID))
}

// -------------------------
// Snapshot
// -------------------------

// EventLogistics arma las colecciones del snapshot de readiness para un evento.
// Los campos propios del evento (semana, presupuesto) los completa events.
func (s *Service) EventLogistics(ctx context.Context, eventID string) (readiness.Snapshot, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return readiness.Snapshot{}, ErrInvalidInput
	}

	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("list participants: %w", err)
	}
	vendors, err := s.repo.ListVendors(ctx, eventID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("list vendors: %w", err)
	}
	workstreams, err := s.ListWorkstreams(ctx, eventID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("list workstreams: %w", err)
	}
	visits, err := s.repo.ListCompanyVisits(ctx, eventID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("list company visits: %w", err)
	}
	lines, err := s.repo.ListBudgetLines(ctx, eventID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("list budget lines: %w", err)
	}

	snap := readiness.Snapshot{
		EventID:       eventID,
		Participants:  make([]readiness.Participant, 0, len(participants)),
		Vendors:       make([]readiness.Vendor, 0, len(vendors)),
		Workstreams:   make([]readiness.Workstream, 0, len(workstreams)),
		CompanyVisits: make([]readiness.CompanyVisit, 0, len(visits)),
		BudgetLines:   make([]readiness.BudgetLine, 0, len(lines)),
	}
	for _, p := range participants {
		snap.Participants = append(snap.Participants, readiness.Participant{
			ID:         p.ID,
			Name:       p.Name,
			Role:       p.Role,
			NeedsVisa:  p.NeedsVisa,
			VisaStatus: p.VisaStatus,
			RSVPStatus: p.RSVPStatus,
		})
	}
	for _, v := range vendors {
		snap.Vendors = append(snap.Vendors, readiness.Vendor{
			ID:             v.ID,
			Name:           v.Name,
			Category:       v.Category,
			ContractSigned: v.ContractSigned,
		})
	}
	for _, w := range workstreams {
		rw := readiness.Workstream{ID: w.ID, Type: w.Type, Tasks: make([]readiness.Task, 0, len(w.Tasks))}
		for _, t := range w.Tasks {
			rw.Tasks = append(rw.Tasks, readiness.Task{
				ID:          t.ID,
				Title:       t.Title,
				Status:      t.Status,
				Criticality: t.Criticality,
			})
		}
		snap.Workstreams = append(snap.Workstreams, rw)
	}
	for _, v := range visits {
		snap.CompanyVisits = append(snap.CompanyVisits, readiness.CompanyVisit{
			ID:                 v.ID,
			CompanyName:        v.CompanyName,
			SpaceConfirmed:     v.SpaceConfirmed,
			DeckReceived:       v.DeckReceived,
			RunOfShowValidated: v.RunOfShowValidated,
		})
	}
	for _, b := range lines {
		snap.BudgetLines = append(snap.BudgetLines, readiness.BudgetLine{
			ID:              b.ID,
			AmountCommitted: b.AmountCommitted,
			AmountPaid:      b.AmountPaid,
		})
	}
	return snap, nil
}

func workstreamRank(t readiness.WorkstreamType) int {
	for i, w := range readiness.WorkstreamTypes {
		if w == t {
			return i
		}
	}
	return len(readiness.WorkstreamTypes)
}

func negative(v *float64) bool {
	return v != nil && *v < 0
}

// PurgeEvent borra todo lo operativo de un evento eliminado.
func (s *Service) PurgeEvent(ctx context.Context, eventID string) error {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteEventData(ctx, eventID)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
