package readiness

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BudgetTolerancePercent es el margen sobre el presupuesto previsto antes de
// marcar budget-ok como fallido (committed <= planned * 1.10).
const BudgetTolerancePercent = 10

// Definition describe una verificación del go/no-go.
// Evaluate debe ser pura: misma entrada, mismo resultado.
type Definition struct {
	ID          string
	Label       string
	Description string
	Severity    Severity
	Evaluate    func(s Snapshot) (passed bool, details string)
}

// Run aplica la definición a un snapshot.
func (d Definition) Run(s Snapshot) Check {
	passed, details := d.Evaluate(s)
	return Check{
		ID:          d.ID,
		Label:       d.Label,
		Description: d.Description,
		Severity:    d.Severity,
		Passed:      passed,
		Details:     details,
	}
}

// catalog en orden de evaluación (y de presentación).
var catalog = []Definition{
	{
		ID:          "visas-approved",
		Label:       "Visas approuvés",
		Description: "Tous les participants nécessitant un visa doivent l'avoir obtenu",
		Severity:    SeverityBlocker,
		Evaluate:    visasApproved,
	},
	{
		ID:          "hotel-contracted",
		Label:       "Hôtel contracté",
		Description: "Au moins un hôtel doit avoir un contrat signé",
		Severity:    SeverityBlocker,
		Evaluate:    hotelContracted,
	},
	{
		ID:          "av-confirmed",
		Label:       "AV & Traduction confirmés",
		Description: "Équipements audiovisuels et traduction doivent être confirmés",
		Severity:    SeverityBlocker,
		Evaluate:    avConfirmed,
	},
	{
		ID:          "lp-confirmed",
		Label:       "LPs confirmés",
		Description: "Tous les LPs doivent avoir confirmé leur participation",
		Severity:    SeverityBlocker,
		Evaluate:    lpConfirmed,
	},
	{
		ID:          "visits-ready",
		Label:       "Visites prêtes",
		Description: "Toutes les visites d'entreprises doivent être préparées",
		Severity:    SeverityWarning,
		Evaluate:    visitsReady,
	},
	{
		ID:          "transport-confirmed",
		Label:       "Transport confirmé",
		Description: "Au moins un prestataire transport doit être confirmé",
		Severity:    SeverityWarning,
		Evaluate:    transportConfirmed,
	},
	{
		ID:          "no-blocking-tasks",
		Label:       "Pas de tâches bloquantes",
		Description: "Aucune tâche critique bloquante ne doit rester ouverte",
		Severity:    SeverityBlocker,
		Evaluate:    noBlockingTasks,
	},
	{
		ID:          "budget-ok",
		Label:       "Budget maîtrisé",
		Description: "Le budget engagé ne doit pas dépasser 110% du budget prévu",
		Severity:    SeverityWarning,
		Evaluate:    budgetOK,
	},
	{
		ID:          "date-selected",
		Label:       "Date sélectionnée",
		Description: "Une semaine doit être choisie pour l'événement",
		Severity:    SeverityBlocker,
		Evaluate:    dateSelected,
	},
	{
		ID:          "meeting-rooms-ready",
		Label:       "Salles de réunion prêtes",
		Description: "Configuration des salles de réunion doit être finalisée",
		Severity:    SeverityWarning,
		Evaluate:    meetingRoomsReady,
	},
}

// Definitions devuelve una copia del catálogo.
func Definitions() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate corre todo el catálogo sobre el snapshot, en orden.
func Evaluate(s Snapshot) []Check {
	out := make([]Check, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.Run(s))
	}
	return out
}

func visasApproved(s Snapshot) (bool, string) {
	var needing, approved int
	for _, p := range s.Participants {
		if !p.NeedsVisa {
			continue
		}
		needing++
		if p.VisaStatus == VisaApproved {
			approved++
		}
	}
	if needing == 0 {
		return true, "Aucun visa requis"
	}
	return approved == needing, fmt.Sprintf("%d/%d visas approuvés", approved, needing)
}

func hotelContracted(s Snapshot) (bool, string) {
	if v, ok := firstSigned(s.Vendors, VendorHotel); ok {
		return true, "Contrat signé: " + v.Name
	}
	return false, "Aucun contrat hôtel signé"
}

func avConfirmed(s Snapshot) (bool, string) {
	var total, signed int
	for _, v := range s.Vendors {
		if v.Category != VendorAVEquipment && v.Category != VendorTranslation {
			continue
		}
		total++
		if v.ContractSigned {
			signed++
		}
	}
	if total == 0 {
		return true, "Non requis"
	}
	return signed == total, fmt.Sprintf("%d/%d confirmés", signed, total)
}

func lpConfirmed(s Snapshot) (bool, string) {
	var total, confirmed int
	for _, p := range s.Participants {
		if p.Role != RoleLP {
			continue
		}
		total++
		if p.RSVPStatus == RSVPConfirmed {
			confirmed++
		}
	}
	if total == 0 {
		return true, "Aucun LP invité"
	}
	return confirmed == total, fmt.Sprintf("%d/%d LPs confirmés", confirmed, total)
}

func visitsReady(s Snapshot) (bool, string) {
	ready := 0
	for _, v := range s.CompanyVisits {
		if v.Ready() {
			ready++
		}
	}
	total := len(s.CompanyVisits)
	return ready == total, fmt.Sprintf("%d/%d visites prêtes", ready, total)
}

func transportConfirmed(s Snapshot) (bool, string) {
	if v, ok := firstSigned(s.Vendors, VendorTransport); ok {
		return true, "Confirmé: " + v.Name
	}
	for _, v := range s.Vendors {
		if v.Category == VendorTransport {
			return false, "Aucun transport confirmé"
		}
	}
	// sin prestatarios de transporte no hay nada que bloquear
	return true, "Aucun transport confirmé"
}

func noBlockingTasks(s Snapshot) (bool, string) {
	open := 0
	for _, w := range s.Workstreams {
		for _, t := range w.Tasks {
			if t.Criticality == CriticalityBlocking && t.Status != TaskDone {
				open++
			}
		}
	}
	if open == 0 {
		return true, "Aucune tâche bloquante"
	}
	return false, fmt.Sprintf("%d tâche(s) bloquante(s) en cours", open)
}

func budgetOK(s Snapshot) (bool, string) {
	planned := 0.0
	if s.BudgetPlanned != nil {
		planned = *s.BudgetPlanned
	}
	committed := 0.0
	exact := new(big.Rat)
	for _, l := range s.BudgetLines {
		if l.AmountCommitted != nil {
			committed += *l.AmountCommitted
			exact.Add(exact, decimalRat(*l.AmountCommitted))
		}
	}

	// committed*100 <= planned*(100+tol), en racionales: sin redondeo ni epsilon.
	limit := new(big.Rat).Mul(decimalRat(planned), big.NewRat(100+BudgetTolerancePercent, 1))
	passed := exact.Mul(exact, big.NewRat(100, 1)).Cmp(limit) <= 0

	return passed, fmt.Sprintf("Engagé: %s€ / Prévu: %s€", formatAmount(committed), formatAmount(planned))
}

// decimalRat toma el decimal más corto que representa f (11000.01 y no su
// aproximación binaria). NaN e Inf cuentan como 0.
func decimalRat(f float64) *big.Rat {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return new(big.Rat)
	}
	return r
}

func dateSelected(s Snapshot) (bool, string) {
	if s.SelectedWeek == nil {
		return false, "Aucune date sélectionnée"
	}
	return true, "Semaine du " + s.SelectedWeek.Format("02/01/2006")
}

func meetingRoomsReady(s Snapshot) (bool, string) {
	var total, done int
	for _, w := range s.Workstreams {
		if w.Type != WorkstreamMeetingRooms {
			continue
		}
		for _, t := range w.Tasks {
			total++
			if t.Status == TaskDone {
				done++
			}
		}
	}
	if total == 0 {
		return true, "Non configuré"
	}
	return done == total, fmt.Sprintf("%d/%d tâches complétées", done, total)
}

func firstSigned(vendors []Vendor, category VendorCategory) (Vendor, bool) {
	for _, v := range vendors {
		if v.Category == category && v.ContractSigned {
			return v, true
		}
	}
	return Vendor{}, false
}

// formatAmount agrupa miles ("11,000"); dos decimales solo si hay centavos.
func formatAmount(v float64) string {
	p := message.NewPrinter(language.English)
	cents := math.Round(v * 100)
	if math.Mod(cents, 100) == 0 {
		return p.Sprintf("%d", int64(cents/100))
	}
	return p.Sprintf("%.2f", cents/100)
}
