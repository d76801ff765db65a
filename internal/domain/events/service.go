package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"advisory-events/internal/domain/audit"
	"advisory-events/internal/domain/readiness"
	"advisory-events/internal/platform/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
	ErrBadState     = errors.New("invalid status transition")
	ErrConflict     = errors.New("event status changed concurrently")
	ErrNotReady     = errors.New("event not ready to go live")
)

// Logistics es lo que events necesita del módulo logistics (evita import cíclico).
type Logistics interface {
	SeedWorkstreams(ctx context.Context, eventID string) error
	EventLogistics(ctx context.Context, eventID string) (readiness.Snapshot, error)
	PurgeEvent(ctx context.Context, eventID string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, in audit.RecordInput) (audit.Entry, error)
}

type Service struct {
	repo      Repository
	logistics Logistics
	audit     AuditRecorder
	log       logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(repo Repository, logistics Logistics, auditor AuditRecorder, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		logistics: logistics,
		audit:     auditor,
		log:       log.With(map[string]any{"component": "events"}),
		tracer:    otel.Tracer("advisory-events/internal/domain/events"),
		now:       time.Now,
	}
}

type CreateInput struct {
	Name          string
	Fund          Fund
	Country       string
	City          string
	SelectedWeek  *time.Time
	BudgetPlanned *float64
	Notes         string
}

// Create registra el evento en DRAFT y le crea los workstreams por defecto.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (Event, error) {
	name := strings.TrimSpace(in.Name)
	country := strings.TrimSpace(in.Country)
	city := strings.TrimSpace(in.City)
	if name == "" || country == "" || city == "" || !in.Fund.Valid() {
		return Event{}, ErrInvalidInput
	}
	if in.BudgetPlanned != nil && *in.BudgetPlanned < 0 {
		return Event{}, ErrInvalidInput
	}

	now := s.now()
	e := Event{
		ID:            uuid.NewString(),
		Name:          name,
		Fund:          in.Fund,
		Country:       country,
		City:          city,
		SelectedWeek:  weekStart(in.SelectedWeek),
		Status:        StatusDraft,
		BudgetPlanned: in.BudgetPlanned,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	// El evento ya quedó creado: un fallo aquí solo se loguea.
	if err := s.logistics.SeedWorkstreams(ctx, e.ID); err != nil {
		s.log.Error("seed workstreams failed", map[string]any{
			"event_id": e.ID,
			"error":    err.Error(),
		})
	}

	s.record(ctx, audit.RecordInput{
		Action:     audit.ActionCreate,
		EntityType: "event",
		EntityID:   e.ID,
		EventID:    e.ID,
		UserID:     actor,
		Changes:    map[string]any{"name": e.Name, "fund": e.Fund, "city": e.City},
	})
	s.log.Info("event created", map[string]any{"event_id": e.ID, "fund": string(e.Fund)})
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Event{}, ErrNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Exists implementa logistics.EventLookup: (false, nil) si no existe,
// error solo si falla el almacenamiento.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if filter.Fund != "" && !filter.Fund.Valid() {
		return nil, ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name          *string
	Country       *string
	City          *string
	SelectedWeek  *time.Time
	ClearWeek     bool
	BudgetPlanned *float64
	Notes         *string
}

// Update modifica los datos del evento. Un evento CLOSED ya no se edita.
func (s *Service) Update(ctx context.Context, id, actor string, in UpdateInput) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status == StatusClosed {
		return Event{}, ErrBadState
	}

	changes := map[string]any{}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Event{}, ErrInvalidInput
		}
		e.Name = v
		changes["name"] = v
	}
	if in.Country != nil {
		v := strings.TrimSpace(*in.Country)
		if v == "" {
			return Event{}, ErrInvalidInput
		}
		e.Country = v
		changes["country"] = v
	}
	if in.City != nil {
		v := strings.TrimSpace(*in.City)
		if v == "" {
			return Event{}, ErrInvalidInput
		}
		e.City = v
		changes["city"] = v
	}
	if in.ClearWeek {
		e.SelectedWeek = nil
		changes["selected_week"] = nil
	} else if in.SelectedWeek != nil {
		e.SelectedWeek = weekStart(in.SelectedWeek)
		changes["selected_week"] = e.SelectedWeek.Format("2006-01-02")
	}
	if in.BudgetPlanned != nil {
		if *in.BudgetPlanned < 0 {
			return Event{}, ErrInvalidInput
		}
		v := *in.BudgetPlanned
		e.BudgetPlanned = &v
		changes["budget_planned"] = v
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
		changes["notes"] = e.Notes
	}
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}

	if len(changes) > 0 {
		s.record(ctx, audit.RecordInput{
			Action:     audit.ActionUpdate,
			EntityType: "event",
			EntityID:   e.ID,
			EventID:    e.ID,
			UserID:     actor,
			Changes:    changes,
		})
	}
	return e, nil
}

// Snapshot arma la foto de readiness: colecciones de logistics + semana y presupuesto del evento.
func (s *Service) Snapshot(ctx context.Context, e Event) (readiness.Snapshot, error) {
	snap, err := s.logistics.EventLogistics(ctx, e.ID)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("event snapshot: %w", err)
	}
	snap.EventID = e.ID
	snap.SelectedWeek = e.SelectedWeek
	snap.BudgetPlanned = e.BudgetPlanned
	return snap, nil
}

// Evaluate corre el checklist go/no-go sobre el estado actual del evento.
func (s *Service) Evaluate(ctx context.Context, id string) (Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "events.Evaluate", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	snap, err := s.Snapshot(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot")
		return Evaluation{}, err
	}

	checks := readiness.Evaluate(snap)
	summary := readiness.Summarize(checks)
	span.SetAttributes(
		attribute.Bool("gonogo.can_go_live", summary.CanGoLive),
		attribute.Int("gonogo.blockers_passed", summary.BlockersPassed),
	)

	return Evaluation{
		EventID:     e.ID,
		Status:      e.Status,
		Checks:      checks,
		Summary:     summary,
		EvaluatedAt: s.now(),
	}, nil
}

// Delete elimina el evento y sus colecciones. Un evento LIVE no se borra:
// hay que cerrarlo antes.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.Status == StatusLive {
		return ErrBadState
	}

	if err := s.repo.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if err := s.logistics.PurgeEvent(ctx, e.ID); err != nil {
		s.log.Error("purge event logistics failed", map[string]any{
			"event_id": e.ID,
			"error":    err.Error(),
		})
	}

	s.record(ctx, audit.RecordInput{
		Action:     audit.ActionDelete,
		EntityType: "event",
		EntityID:   e.ID,
		EventID:    e.ID,
		UserID:     actor,
		Changes:    map[string]any{"name": e.Name, "status": e.Status},
	})
	s.log.Info("event deleted", map[string]any{"event_id": e.ID, "status": string(e.Status)})
	return nil
}

// Stats arma el tablero del evento: contadores y avance por workstream.
func (s *Service) Stats(ctx context.Context, id string) (Dashboard, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}
	snap, err := s.Snapshot(ctx, e)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	return Dashboard{
		EventID:    e.ID,
		Status:     e.Status,
		Dashboard:  readiness.BuildDashboard(snap, now),
		ComputedAt: now,
	}, nil
}

// Lock congela la planificación (DRAFT -> LOCKED).
func (s *Service) Lock(ctx context.Context, id, actor string) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status != StatusDraft {
		return Event{}, ErrBadState
	}
	return s.transition(ctx, e, StatusLocked, actor, nil)
}

// GoLive pasa LOCKED -> LIVE solo si todos los blockers pasan.
// Si no, devuelve ErrNotReady junto con el veredicto (blockers que fallan).
func (s *Service) GoLive(ctx context.Context, id, actor string) (Event, readiness.Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "events.GoLive", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, readiness.Verdict{}, err
	}
	if e.Status != StatusLocked {
		return Event{}, readiness.Verdict{}, ErrBadState
	}

	snap, err := s.Snapshot(ctx, e)
	if err != nil {
		span.RecordError(err)
		return Event{}, readiness.Verdict{}, err
	}

	verdict := readiness.Attempt(snap)
	if !verdict.Transition {
		s.log.Warn("go-live refused", map[string]any{
			"event_id":         e.ID,
			"failing_blockers": checkIDs(verdict.FailingBlockers),
		})
		span.SetAttributes(attribute.Bool("gonogo.refused", true))
		return Event{}, verdict, ErrNotReady
	}

	updated, err := s.transition(ctx, e, StatusLive, actor, verdict.Checks)
	if err != nil {
		return Event{}, readiness.Verdict{}, err
	}
	return updated, verdict, nil
}

// ForceGoLive pasa LOCKED -> LIVE aunque fallen blockers; exige justificación.
func (s *Service) ForceGoLive(ctx context.Context, id, actor, justification string) (Event, readiness.Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "events.ForceGoLive", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, readiness.Verdict{}, err
	}
	if e.Status != StatusLocked {
		return Event{}, readiness.Verdict{}, ErrBadState
	}

	snap, err := s.Snapshot(ctx, e)
	if err != nil {
		span.RecordError(err)
		return Event{}, readiness.Verdict{}, err
	}

	verdict, err := readiness.Force(snap, justification)
	if err != nil {
		return Event{}, readiness.Verdict{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.log.Warn("go-live forced", map[string]any{
		"event_id":         e.ID,
		"actor":            actor,
		"failing_blockers": checkIDs(verdict.FailingBlockers),
	})

	updated, err := s.transitionForced(ctx, e, actor, verdict)
	if err != nil {
		return Event{}, readiness.Verdict{}, err
	}
	return updated, verdict, nil
}

// Close cierra un evento LIVE.
func (s *Service) Close(ctx context.Context, id, actor string) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status != StatusLive {
		return Event{}, ErrBadState
	}
	return s.transition(ctx, e, StatusClosed, actor, nil)
}

func (s *Service) transition(ctx context.Context, e Event, to Status, actor string, checks []readiness.Check) (Event, error) {
	changes := map[string]any{"from": e.Status, "to": to}
	if checks != nil {
		changes["checks"] = checks
	}
	return s.writeStatus(ctx, e, to, actor, changes)
}

func (s *Service) transitionForced(ctx context.Context, e Event, actor string, v readiness.Verdict) (Event, error) {
	changes := map[string]any{
		"from":             e.Status,
		"to":               StatusLive,
		"forced":           true,
		"justification":    v.Justification,
		"failing_blockers": checkIDs(v.FailingBlockers),
		"checks":           v.Checks,
	}
	return s.writeStatus(ctx, e, StatusLive, actor, changes)
}

func (s *Service) writeStatus(ctx context.Context, e Event, to Status, actor string, changes map[string]any) (Event, error) {
	from := e.Status
	at := s.now()

	if err := s.repo.UpdateStatus(ctx, e.ID, from, to, at); err != nil {
		if errors.Is(err, ErrConflict) {
			return Event{}, ErrConflict
		}
		return Event{}, fmt.Errorf("update status: %w", err)
	}

	s.record(ctx, audit.RecordInput{
		Action:     audit.ActionStatusChange,
		EntityType: "event",
		EntityID:   e.ID,
		EventID:    e.ID,
		UserID:     actor,
		Changes:    changes,
	})
	s.log.Info("event status changed", map[string]any{
		"event_id": e.ID,
		"from":     string(from),
		"to":       string(to),
	})

	return s.GetByID(ctx, e.ID)
}

// record no falla la operación: la transición ya quedó escrita.
func (s *Service) record(ctx context.Context, in audit.RecordInput) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, in); err != nil {
		s.log.Error("audit record failed", map[string]any{
			"event_id": in.EventID,
			"action":   string(in.Action),
			"error":    err.Error(),
		})
	}
}

// weekStart normaliza una fecha al lunes de su semana (UTC, 00:00).
func weekStart(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := t.UTC()
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	d = d.AddDate(0, 0, -offset)
	return &d
}

func checkIDs(checks []readiness.Check) []string {
	out := make([]string, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.ID)
	}
	return out
}
