package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"advisory-events/internal/domain/audit"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Append(ctx context.Context, e audit.Entry) error {
	var changes any
	if len(e.Changes) > 0 {
		changes = string(e.Changes)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (
			id, action, entity_type, entity_id,
			changes, user_id, event_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		string(e.Action),
		e.EntityType,
		e.EntityID,
		changes,
		e.UserID,
		e.EventID,
		e.CreatedAt,
	)
	return err
}

func (r *AuditRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, action, entity_type, entity_id,
			changes, user_id, event_id, created_at
		FROM audit_logs
		WHERE event_id = $1
		ORDER BY created_at DESC, created_seq DESC
		LIMIT $2
	`, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var action string
		var changes sql.NullString

		if err := rows.Scan(
			&e.ID,
			&action,
			&e.EntityType,
			&e.EntityID,
			&changes,
			&e.UserID,
			&e.EventID,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}

		e.Action = audit.Action(action)
		if changes.Valid {
			e.Changes = json.RawMessage(changes.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
