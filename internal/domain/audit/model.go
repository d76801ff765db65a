package audit

import (
	"encoding/json"
	"time"
)

type Action string

const (
	ActionCreate       Action = "CREATE"
	ActionUpdate       Action = "UPDATE"
	ActionStatusChange Action = "STATUS_CHANGE"
	ActionDelete       Action = "DELETE"
	ActionAIGeneration Action = "AI_GENERATION"
)

// Entry es una línea del log de auditoría (append-only).
type Entry struct {
	ID string

	Action     Action
	EntityType string // event, participant, vendor, task...
	EntityID   string

	// Changes es JSON libre (diff, checks del go/no-go, justificación...).
	Changes json.RawMessage

	UserID  string // vacío si no se identificó operador
	EventID string

	CreatedAt time.Time
}
