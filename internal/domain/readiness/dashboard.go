package readiness

import (
	"math"
	"time"
)

// AtRiskDays: a menos de estos días del evento, un workstream por debajo
// del 50% pasa a at-risk.
const AtRiskDays = 14

type ProgressStatus string

const (
	ProgressOnTrack  ProgressStatus = "on-track"
	ProgressAtRisk   ProgressStatus = "at-risk"
	ProgressBlocked  ProgressStatus = "blocked"
	ProgressComplete ProgressStatus = "complete"
)

// Stats son los contadores del tablero de un evento.
type Stats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	BlockedTasks   int `json:"blocked_tasks"`
	// CriticalTasks: criticidad BLOCKING y no DONE.
	CriticalTasks int `json:"critical_tasks"`

	ParticipantsConfirmed int `json:"participants_confirmed"`
	ParticipantsTotal     int `json:"participants_total"`
	VisasPending          int `json:"visas_pending"`

	BudgetPlanned   float64 `json:"budget_planned"`
	BudgetCommitted float64 `json:"budget_committed"`
	BudgetPaid      float64 `json:"budget_paid"`

	DaysUntilEvent *int `json:"days_until_event"`
}

type WorkstreamProgress struct {
	Type           WorkstreamType `json:"type"`
	Label          string         `json:"label"`
	TotalTasks     int            `json:"total_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
	BlockedTasks   int            `json:"blocked_tasks"`
	Progress       int            `json:"progress"`
	Status         ProgressStatus `json:"status"`
}

// Dashboard junta los contadores y el avance por workstream.
type Dashboard struct {
	Stats       Stats                `json:"stats"`
	Workstreams []WorkstreamProgress `json:"workstreams"`
}

var workstreamLabels = map[WorkstreamType]string{
	WorkstreamDateSelection:    "Sélection des dates",
	WorkstreamVisaImmigration:  "Visas & Immigration",
	WorkstreamFlightsTransfers: "Vols & Transferts",
	WorkstreamHotel:            "Hôtel",
	WorkstreamMeetingRooms:     "Salles de réunion",
	WorkstreamAVTranslation:    "AV & Traduction",
	WorkstreamCompanyVisits:    "Visites d'entreprises",
	WorkstreamGroundTransport:  "Transport terrestre",
	WorkstreamMeals:            "Restauration",
	WorkstreamEcosystemEvent:   "Événement écosystème",
	WorkstreamITConnectivity:   "IT & Connectivité",
	WorkstreamSecurity:         "Sécurité",
	WorkstreamBudgetContracts:  "Budget & Contrats",
	WorkstreamCommunications:   "Communications",
}

// WorkstreamLabel devuelve la etiqueta visible; un tipo desconocido se
// devuelve tal cual.
func WorkstreamLabel(t WorkstreamType) string {
	if l, ok := workstreamLabels[t]; ok {
		return l
	}
	return string(t)
}

// NeedsAttention: tarea BLOCKING o HIGH que todavía no está DONE.
func NeedsAttention(t Task) bool {
	return (t.Criticality == CriticalityBlocking || t.Criticality == CriticalityHigh) && t.Status != TaskDone
}

// DaysUntil cuenta días (redondeando hacia arriba) entre now y la semana
// elegida. nil si no hay semana; negativo si ya pasó.
func DaysUntil(week *time.Time, now time.Time) *int {
	if week == nil {
		return nil
	}
	d := int(math.Ceil(week.Sub(now).Hours() / 24))
	return &d
}

func ComputeStats(s Snapshot, now time.Time) Stats {
	var st Stats
	for _, w := range s.Workstreams {
		for _, t := range w.Tasks {
			st.TotalTasks++
			switch t.Status {
			case TaskDone:
				st.CompletedTasks++
			case TaskBlocked:
				st.BlockedTasks++
			}
			if t.Criticality == CriticalityBlocking && t.Status != TaskDone {
				st.CriticalTasks++
			}
		}
	}

	st.ParticipantsTotal = len(s.Participants)
	for _, p := range s.Participants {
		if p.RSVPStatus == RSVPConfirmed {
			st.ParticipantsConfirmed++
		}
		if p.NeedsVisa && p.VisaStatus != VisaApproved {
			st.VisasPending++
		}
	}

	if s.BudgetPlanned != nil {
		st.BudgetPlanned = *s.BudgetPlanned
	}
	for _, b := range s.BudgetLines {
		if b.AmountCommitted != nil {
			st.BudgetCommitted += *b.AmountCommitted
		}
		if b.AmountPaid != nil {
			st.BudgetPaid += *b.AmountPaid
		}
	}

	st.DaysUntilEvent = DaysUntil(s.SelectedWeek, now)
	return st
}

// Progress calcula el avance de cada workstream en el orden del snapshot.
// Prioridad del estado: complete, blocked, at-risk, on-track.
func Progress(s Snapshot, daysUntil *int) []WorkstreamProgress {
	out := make([]WorkstreamProgress, 0, len(s.Workstreams))
	for _, w := range s.Workstreams {
		p := WorkstreamProgress{
			Type:       w.Type,
			Label:      WorkstreamLabel(w.Type),
			TotalTasks: len(w.Tasks),
		}
		for _, t := range w.Tasks {
			switch t.Status {
			case TaskDone:
				p.CompletedTasks++
			case TaskBlocked:
				p.BlockedTasks++
			}
		}
		if p.TotalTasks > 0 {
			p.Progress = int(math.Round(float64(p.CompletedTasks) * 100 / float64(p.TotalTasks)))
		}

		switch {
		case p.Progress == 100:
			p.Status = ProgressComplete
		case p.BlockedTasks > 0:
			p.Status = ProgressBlocked
		case p.Progress < 50 && daysUntil != nil && *daysUntil < AtRiskDays:
			p.Status = ProgressAtRisk
		default:
			p.Status = ProgressOnTrack
		}
		out = append(out, p)
	}
	return out
}

func BuildDashboard(s Snapshot, now time.Time) Dashboard {
	st := ComputeStats(s, now)
	return Dashboard{
		Stats:       st,
		Workstreams: Progress(s, st.DaysUntilEvent),
	}
}
