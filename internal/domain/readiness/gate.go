package readiness

import (
	"errors"
	"strings"
)

var (
	ErrJustificationRequired = errors.New("justification required to force go-live")
)

// Verdict es lo que el gate devuelve al dueño del registro del evento.
// Transition=true significa "pasar LOCKED -> LIVE"; el gate no escribe nada.
type Verdict struct {
	Transition      bool
	Forced          bool
	Justification   string
	Checks          []Check
	Summary         Summary
	FailingBlockers []Check
}

// Attempt evalúa el snapshot y solo habilita la transición si no falla ningún blocker.
func Attempt(s Snapshot) Verdict {
	checks := Evaluate(s)
	summary := Summarize(checks)
	v := Verdict{
		Transition: summary.CanGoLive,
		Checks:     checks,
		Summary:    summary,
	}
	if !summary.CanGoLive {
		v.FailingBlockers = FailingBlockers(checks)
	}
	return v
}

// Force habilita la transición sin importar los checks, pero exige una
// justificación no vacía. Los checks se adjuntan igual para auditoría.
func Force(s Snapshot, justification string) (Verdict, error) {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return Verdict{}, ErrJustificationRequired
	}

	checks := Evaluate(s)
	return Verdict{
		Transition:      true,
		Forced:          true,
		Justification:   justification,
		Checks:          checks,
		Summary:         Summarize(checks),
		FailingBlockers: FailingBlockers(checks),
	}, nil
}
