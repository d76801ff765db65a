package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"advisory-events/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, name, fund, country, city,
	selected_week, status, budget_planned, notes,
	created_at, updated_at, locked_at, live_at, closed_at
`

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		e.ID,
		e.Name,
		string(e.Fund),
		e.Country,
		e.City,
		toNullTime(e.SelectedWeek),
		string(e.Status),
		toNullFloat(e.BudgetPlanned),
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
		toNullTime(e.LockedAt),
		toNullTime(e.LiveAt),
		toNullTime(e.ClosedAt),
	)
	return err
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(filter.Status))
		argN++
	}
	if filter.Fund != "" {
		sb.WriteString(fmt.Sprintf(" AND fund = $%d", argN))
		args = append(args, string(filter.Fund))
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	sb.WriteString(" ORDER BY created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update no toca status ni sus timestamps: eso pasa solo por UpdateStatus.
func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET
			name = $2,
			country = $3,
			city = $4,
			selected_week = $5,
			budget_planned = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $1
	`,
		e.ID,
		e.Name,
		e.Country,
		e.City,
		toNullTime(e.SelectedWeek),
		toNullFloat(e.BudgetPlanned),
		e.Notes,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

// UpdateStatus es un compare-and-set: el WHERE incluye el estado esperado.
func (r *EventsRepo) UpdateStatus(ctx context.Context, id string, from, to events.Status, at time.Time) error {
	var column string
	switch to {
	case events.StatusLocked:
		column = "locked_at"
	case events.StatusLive:
		column = "live_at"
	case events.StatusClosed:
		column = "closed_at"
	default:
		return fmt.Errorf("unsupported target status %q", to)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET status = $3, updated_at = $4, `+column+` = $4
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), at)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 1 {
		return nil
	}

	// 0 filas: o no existe o el estado ya cambió.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return events.ErrConflict
}

// Delete borra el evento; las tablas hijas caen por ON DELETE CASCADE.
func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (events.Event, error) {
	var e events.Event
	var fund, status string
	var week, lockedAt, liveAt, closedAt sql.NullTime
	var budget sql.NullFloat64

	if err := s.Scan(
		&e.ID,
		&e.Name,
		&fund,
		&e.Country,
		&e.City,
		&week,
		&status,
		&budget,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
		&lockedAt,
		&liveAt,
		&closedAt,
	); err != nil {
		return events.Event{}, err
	}

	e.Fund = events.Fund(fund)
	e.Status = events.Status(status)
	e.SelectedWeek = fromNullTime(week)
	e.BudgetPlanned = fromNullFloat(budget)
	e.LockedAt = fromNullTime(lockedAt)
	e.LiveAt = fromNullTime(liveAt)
	e.ClosedAt = fromNullTime(closedAt)
	return e, nil
}
