package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"advisory-events/internal/domain/logistics"
	"advisory-events/internal/domain/readiness"
)

type LogisticsRepo struct {
	db *sql.DB
}

func NewLogisticsRepo(db *sql.DB) *LogisticsRepo {
	return &LogisticsRepo{db: db}
}

// -------------------------
// Participants
// -------------------------

const participantColumns = `
	id, event_id, name, organization, email, role, language,
	needs_visa, visa_status, rsvp_status,
	dietary_restrictions, special_needs, hotel_assigned,
	created_at, updated_at
`

func (r *LogisticsRepo) CreateParticipant(ctx context.Context, p logistics.Participant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (`+participantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		p.EventID,
		p.Name,
		p.Organization,
		p.Email,
		string(p.Role),
		string(p.Language),
		p.NeedsVisa,
		toNullString(string(p.VisaStatus)),
		string(p.RSVPStatus),
		p.DietaryRestrictions,
		p.SpecialNeeds,
		p.HotelAssigned,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *LogisticsRepo) UpdateParticipant(ctx context.Context, p logistics.Participant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE participants
		SET
			needs_visa = $2,
			visa_status = $3,
			rsvp_status = $4,
			hotel_assigned = $5,
			updated_at = $6
		WHERE id = $1
	`,
		p.ID,
		p.NeedsVisa,
		toNullString(string(p.VisaStatus)),
		string(p.RSVPStatus),
		p.HotelAssigned,
		p.UpdatedAt,
	)
	return affectedOne(res, err)
}

func (r *LogisticsRepo) GetParticipant(ctx context.Context, id string) (logistics.Participant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, strings.TrimSpace(id))
	p, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return logistics.Participant{}, logistics.ErrNotFound
	}
	return p, err
}

func (r *LogisticsRepo) ListParticipants(ctx context.Context, eventID string) ([]logistics.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+participantColumns+`
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *LogisticsRepo) DeleteParticipant(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, strings.TrimSpace(id))
	return affectedOne(res, err)
}

// UpdateParticipantsRSVP corre en una transacción: si alguna fila no es del
// evento se hace rollback y no cambia nada.
func (r *LogisticsRepo) UpdateParticipantsRSVP(ctx context.Context, eventID string, ids []string, status readiness.RSVPStatus, at time.Time) error {
	return r.bulkUpdate(ctx, `
		UPDATE participants
		SET rsvp_status = $3, updated_at = $4
		WHERE event_id = $1 AND id = ANY($2)
	`, eventID, ids, string(status), at)
}

func scanParticipant(s rowScanner) (logistics.Participant, error) {
	var p logistics.Participant
	var role, lang, rsvp string
	var visa sql.NullString

	if err := s.Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&p.Organization,
		&p.Email,
		&role,
		&lang,
		&p.NeedsVisa,
		&visa,
		&rsvp,
		&p.DietaryRestrictions,
		&p.SpecialNeeds,
		&p.HotelAssigned,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return logistics.Participant{}, err
	}

	p.Role = readiness.ParticipantRole(role)
	p.Language = logistics.Language(lang)
	p.VisaStatus = readiness.VisaStatus(visa.String)
	p.RSVPStatus = readiness.RSVPStatus(rsvp)
	return p, nil
}

// -------------------------
// Vendors
// -------------------------

const vendorColumns = `
	id, event_id, category, name,
	contact_name, contact_email, contact_phone,
	quote_received, contract_signed, status, notes
`

func (r *LogisticsRepo) CreateVendor(ctx context.Context, v logistics.Vendor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vendors (`+vendorColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		v.ID,
		v.EventID,
		string(v.Category),
		v.Name,
		v.ContactName,
		v.ContactEmail,
		v.ContactPhone,
		v.QuoteReceived,
		v.ContractSigned,
		string(v.Status),
		v.Notes,
	)
	return err
}

func (r *LogisticsRepo) UpdateVendor(ctx context.Context, v logistics.Vendor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vendors
		SET
			quote_received = $2,
			contract_signed = $3,
			status = $4,
			notes = $5
		WHERE id = $1
	`,
		v.ID,
		v.QuoteReceived,
		v.ContractSigned,
		string(v.Status),
		v.Notes,
	)
	return affectedOne(res, err)
}

func (r *LogisticsRepo) GetVendor(ctx context.Context, id string) (logistics.Vendor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, strings.TrimSpace(id))
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return logistics.Vendor{}, logistics.ErrNotFound
	}
	return v, err
}

func (r *LogisticsRepo) ListVendors(ctx context.Context, eventID string) ([]logistics.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE event_id = $1
		ORDER BY created_seq ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.Vendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVendor(s rowScanner) (logistics.Vendor, error) {
	var v logistics.Vendor
	var category, status string

	if err := s.Scan(
		&v.ID,
		&v.EventID,
		&category,
		&v.Name,
		&v.ContactName,
		&v.ContactEmail,
		&v.ContactPhone,
		&v.QuoteReceived,
		&v.ContractSigned,
		&status,
		&v.Notes,
	); err != nil {
		return logistics.Vendor{}, err
	}
	v.Category = readiness.VendorCategory(category)
	v.Status = logistics.VendorStatus(status)
	return v, nil
}

// -------------------------
// Workstreams & tasks
// -------------------------

// CreateWorkstreams inserta todos en una transacción: o se crean los 14 o ninguno.
func (r *LogisticsRepo) CreateWorkstreams(ctx context.Context, ws []logistics.Workstream) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, w := range ws {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workstreams (id, event_id, type, owner_id, notes)
			VALUES ($1,$2,$3,$4,$5)
		`, w.ID, w.EventID, string(w.Type), w.OwnerID, w.Notes); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *LogisticsRepo) GetWorkstream(ctx context.Context, id string) (logistics.Workstream, error) {
	var w logistics.Workstream
	var typ string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, type, owner_id, notes
		FROM workstreams
		WHERE id = $1
	`, strings.TrimSpace(id)).Scan(&w.ID, &w.EventID, &typ, &w.OwnerID, &w.Notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return logistics.Workstream{}, logistics.ErrNotFound
		}
		return logistics.Workstream{}, err
	}
	w.Type = readiness.WorkstreamType(typ)
	return w, nil
}

func (r *LogisticsRepo) ListWorkstreams(ctx context.Context, eventID string) ([]logistics.Workstream, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, type, owner_id, notes
		FROM workstreams
		WHERE event_id = $1
		ORDER BY created_seq ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.Workstream, 0)
	for rows.Next() {
		var w logistics.Workstream
		var typ string
		if err := rows.Scan(&w.ID, &w.EventID, &typ, &w.OwnerID, &w.Notes); err != nil {
			return nil, err
		}
		w.Type = readiness.WorkstreamType(typ)
		out = append(out, w)
	}
	return out, rows.Err()
}

const taskColumns = `
	id, event_id, workstream_id, title, description,
	deadline, status, criticality, notes,
	created_at, updated_at
`

func (r *LogisticsRepo) CreateTask(ctx context.Context, t logistics.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		t.ID,
		t.EventID,
		t.WorkstreamID,
		t.Title,
		t.Description,
		toNullTime(t.Deadline),
		string(t.Status),
		toNullString(string(t.Criticality)),
		t.Notes,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *LogisticsRepo) UpdateTask(ctx context.Context, t logistics.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET
			title = $2,
			status = $3,
			criticality = $4,
			notes = $5,
			updated_at = $6
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		string(t.Status),
		toNullString(string(t.Criticality)),
		t.Notes,
		t.UpdatedAt,
	)
	return affectedOne(res, err)
}

func (r *LogisticsRepo) GetTask(ctx context.Context, id string) (logistics.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, strings.TrimSpace(id))
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return logistics.Task{}, logistics.ErrNotFound
	}
	return t, err
}

func (r *LogisticsRepo) ListTasksByEvent(ctx context.Context, eventID string) ([]logistics.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *LogisticsRepo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, strings.TrimSpace(id))
	return affectedOne(res, err)
}

func (r *LogisticsRepo) UpdateTasksStatus(ctx context.Context, eventID string, ids []string, status readiness.TaskStatus, at time.Time) error {
	return r.bulkUpdate(ctx, `
		UPDATE tasks
		SET status = $3, updated_at = $4
		WHERE event_id = $1 AND id = ANY($2)
	`, eventID, ids, string(status), at)
}

func scanTask(s rowScanner) (logistics.Task, error) {
	var t logistics.Task
	var status string
	var crit sql.NullString
	var deadline sql.NullTime

	if err := s.Scan(
		&t.ID,
		&t.EventID,
		&t.WorkstreamID,
		&t.Title,
		&t.Description,
		&deadline,
		&status,
		&crit,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return logistics.Task{}, err
	}
	t.Deadline = fromNullTime(deadline)
	t.Status = readiness.TaskStatus(status)
	t.Criticality = readiness.Criticality(crit.String)
	return t, nil
}

// -------------------------
// Company visits
// -------------------------

const visitColumns = `
	id, event_id, company_name, portfolio_status, address, max_capacity,
	space_confirmed, deck_received, run_of_show_validated,
	visit_date, notes
`

func (r *LogisticsRepo) CreateCompanyVisit(ctx context.Context, v logistics.CompanyVisit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company_visits (`+visitColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		v.ID,
		v.EventID,
		v.CompanyName,
		string(v.PortfolioStatus),
		v.Address,
		v.MaxCapacity,
		v.SpaceConfirmed,
		v.DeckReceived,
		v.RunOfShowValidated,
		toNullTime(v.VisitDate),
		v.Notes,
	)
	return err
}

func (r *LogisticsRepo) UpdateCompanyVisit(ctx context.Context, v logistics.CompanyVisit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE company_visits
		SET
			space_confirmed = $2,
			deck_received = $3,
			run_of_show_validated = $4,
			notes = $5
		WHERE id = $1
	`,
		v.ID,
		v.SpaceConfirmed,
		v.DeckReceived,
		v.RunOfShowValidated,
		v.Notes,
	)
	return affectedOne(res, err)
}

func (r *LogisticsRepo) GetCompanyVisit(ctx context.Context, id string) (logistics.CompanyVisit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM company_visits WHERE id = $1`, strings.TrimSpace(id))
	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return logistics.CompanyVisit{}, logistics.ErrNotFound
	}
	return v, err
}

func (r *LogisticsRepo) ListCompanyVisits(ctx context.Context, eventID string) ([]logistics.CompanyVisit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+visitColumns+`
		FROM company_visits
		WHERE event_id = $1
		ORDER BY created_seq ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.CompanyVisit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVisit(s rowScanner) (logistics.CompanyVisit, error) {
	var v logistics.CompanyVisit
	var ps string
	var visitDate sql.NullTime

	if err := s.Scan(
		&v.ID,
		&v.EventID,
		&v.CompanyName,
		&ps,
		&v.Address,
		&v.MaxCapacity,
		&v.SpaceConfirmed,
		&v.DeckReceived,
		&v.RunOfShowValidated,
		&visitDate,
		&v.Notes,
	); err != nil {
		return logistics.CompanyVisit{}, err
	}
	v.PortfolioStatus = logistics.PortfolioStatus(ps)
	v.VisitDate = fromNullTime(visitDate)
	return v, nil
}

// -------------------------
// Budget
// -------------------------

func (r *LogisticsRepo) CreateBudgetLine(ctx context.Context, b logistics.BudgetLine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_lines (
			id, event_id, workstream_type, description,
			amount_planned, amount_committed, amount_paid,
			currency, vendor_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		b.ID,
		b.EventID,
		string(b.WorkstreamType),
		b.Description,
		b.AmountPlanned,
		toNullFloat(b.AmountCommitted),
		toNullFloat(b.AmountPaid),
		b.Currency,
		toNullString(b.VendorID),
	)
	return err
}

func (r *LogisticsRepo) ListBudgetLines(ctx context.Context, eventID string) ([]logistics.BudgetLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, event_id, workstream_type, description,
			amount_planned, amount_committed, amount_paid,
			currency, vendor_id
		FROM budget_lines
		WHERE event_id = $1
		ORDER BY created_seq ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logistics.BudgetLine, 0)
	for rows.Next() {
		var b logistics.BudgetLine
		var typ string
		var committed, paid sql.NullFloat64
		var vendorID sql.NullString

		if err := rows.Scan(
			&b.ID,
			&b.EventID,
			&typ,
			&b.Description,
			&b.AmountPlanned,
			&committed,
			&paid,
			&b.Currency,
			&vendorID,
		); err != nil {
			return nil, err
		}
		b.WorkstreamType = readiness.WorkstreamType(typ)
		b.AmountCommitted = fromNullFloat(committed)
		b.AmountPaid = fromNullFloat(paid)
		b.VendorID = vendorID.String
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *LogisticsRepo) bulkUpdate(ctx context.Context, query, eventID string, ids []string, value string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, eventID, ids, value, at)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n != int64(len(ids)) {
		_ = tx.Rollback()
		return logistics.ErrNotFound
	}
	return tx.Commit()
}

// DeleteEventData borra hijos antes que padres (tasks antes que workstreams,
// budget_lines antes que vendors) en una sola transacción.
func (r *LogisticsRepo) DeleteEventData(ctx context.Context, eventID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, table := range []string{"tasks", "workstreams", "budget_lines", "vendors", "participants", "company_visits"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = $1`, eventID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return logistics.ErrNotFound
	}
	return nil
}
