package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	Action     Action
	EntityType string
	EntityID   string
	EventID    string
	UserID     string

	// Changes se serializa a JSON; nil => sin cambios.
	Changes any
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Entry, error) {
	entityType := strings.TrimSpace(in.EntityType)
	entityID := strings.TrimSpace(in.EntityID)
	if in.Action == "" || entityType == "" || entityID == "" {
		return Entry{}, ErrInvalidInput
	}

	var changes json.RawMessage
	if in.Changes != nil {
		b, err := json.Marshal(in.Changes)
		if err != nil {
			return Entry{}, fmt.Errorf("audit: marshal changes: %w", err)
		}
		changes = b
	}

	e := Entry{
		ID:         uuid.NewString(),
		Action:     in.Action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		UserID:     strings.TrimSpace(in.UserID),
		EventID:    strings.TrimSpace(in.EventID),
		CreatedAt:  s.now(),
	}

	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListByEvent devuelve las entradas del evento, más recientes primero.
func (s *Service) ListByEvent(ctx context.Context, eventID string, limit int) ([]Entry, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListByEvent(ctx, eventID, limit)
}
