package copilot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"advisory-events/internal/domain/audit"
	"advisory-events/internal/domain/events"
	"advisory-events/internal/domain/readiness"
	"advisory-events/internal/platform/logger"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("ai generation not configured")
	ErrEventNotFound = errors.New("event not found")
)

// Generator es el modelo de lenguaje (adapter anthropic en producción).
type Generator interface {
	Generate(ctx context.Context, p Prompt) (Completion, error)
}

// EventReader es lo que copilot necesita de events para armar el análisis de riesgos.
type EventReader interface {
	GetByID(ctx context.Context, id string) (events.Event, error)
	Snapshot(ctx context.Context, e events.Event) (readiness.Snapshot, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, in audit.RecordInput) (audit.Entry, error)
}

type Service struct {
	gen    Generator
	events EventReader
	audit  AuditRecorder
	log    logger.Logger
	now    func() time.Time
}

// NewService: gen nil => ErrNotConfigured en cada Generate.
func NewService(gen Generator, ev EventReader, auditor AuditRecorder, log logger.Logger) *Service {
	return &Service{
		gen:    gen,
		events: ev,
		audit:  auditor,
		log:    log.With(map[string]any{"component": "copilot"}),
		now:    time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.gen != nil
}

func (s *Service) Generate(ctx context.Context, actor string, req Request) (Result, error) {
	if !req.Action.Valid() {
		return Result{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}
	switch req.Language {
	case "":
		req.Language = LanguageFR
	case LanguageFR, LanguageEN:
	default:
		return Result{}, fmt.Errorf("%w: unknown language %q", ErrInvalidInput, req.Language)
	}
	if !s.Enabled() {
		return Result{}, ErrNotConfigured
	}

	c := make(map[string]any, len(req.Context)+6)
	for k, v := range req.Context {
		c[k] = v
	}

	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID != "" {
		e, err := s.events.GetByID(ctx, req.EventID)
		if errors.Is(err, events.ErrNotFound) {
			return Result{}, ErrEventNotFound
		}
		if err != nil {
			return Result{}, err
		}
		if _, ok := c["eventName"]; !ok {
			c["eventName"] = e.Name
		}
		if req.Action == ActionRiskAnalysis {
			snap, err := s.events.Snapshot(ctx, e)
			if err != nil {
				return Result{}, err
			}
			for k, v := range riskContext(snap, s.now()) {
				c[k] = v
			}
		}
	}

	out, err := s.gen.Generate(ctx, buildPrompt(req.Action, req.Language, c))
	if err != nil {
		s.log.Error("ai generation failed", map[string]any{
			"action": string(req.Action),
			"error":  err.Error(),
		})
		return Result{}, err
	}

	res := Result{
		Content:    out.Text,
		TokensUsed: out.InputTokens + out.OutputTokens,
		Model:      out.Model,
	}

	if req.EventID != "" && s.audit != nil {
		_, err := s.audit.Record(ctx, audit.RecordInput{
			Action:     audit.ActionAIGeneration,
			EntityType: "event",
			EntityID:   req.EventID,
			EventID:    req.EventID,
			UserID:     actor,
			Changes: map[string]any{
				"action":      string(req.Action),
				"language":    string(req.Language),
				"model":       res.Model,
				"tokens_used": res.TokensUsed,
			},
		})
		if err != nil {
			s.log.Error("audit record failed", map[string]any{
				"event_id": req.EventID,
				"error":    err.Error(),
			})
		}
	}

	return res, nil
}

// riskContext resume el checklist go/no-go en las claves que usa el prompt de riesgos.
func riskContext(snap readiness.Snapshot, now time.Time) map[string]any {
	out := map[string]any{}

	if snap.SelectedWeek != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		out["daysUntil"] = int(snap.SelectedWeek.Sub(today).Hours() / 24)
	}

	blocking := make([]string, 0)
	for _, w := range snap.Workstreams {
		for _, t := range w.Tasks {
			if t.Criticality == readiness.CriticalityBlocking && t.Status != readiness.TaskDone {
				blocking = append(blocking, t.Title)
			}
		}
	}
	out["blockingTasks"] = blocking

	pending := 0
	for _, p := range snap.Participants {
		if p.NeedsVisa && p.VisaStatus != readiness.VisaApproved {
			pending++
		}
	}
	out["pendingVisas"] = pending

	unsigned := make([]string, 0)
	for _, v := range snap.Vendors {
		if !v.ContractSigned {
			unsigned = append(unsigned, v.Name)
		}
	}
	out["unsignedContracts"] = unsigned

	checks := readiness.Evaluate(snap)
	for _, c := range checks {
		if c.ID == "budget-ok" {
			state := "OK"
			if !c.Passed {
				state = "dépassement"
			}
			out["budgetStatus"] = fmt.Sprintf("%s (%s)", c.Details, state)
		}
	}

	failing := readiness.FailingBlockers(checks)
	if len(failing) > 0 {
		labels := make([]string, 0, len(failing))
		for _, c := range failing {
			labels = append(labels, c.Label)
		}
		out["failingBlockers"] = labels
	}
	return out
}
