package readiness

// CanGoLive: todos los blockers pasaron. Los warnings nunca bloquean.
func CanGoLive(checks []Check) bool {
	for _, c := range checks {
		if c.Severity == SeverityBlocker && !c.Passed {
			return false
		}
	}
	return true
}

// Summarize cuenta blockers/warnings. CanGoLive usa el mismo predicado.
func Summarize(checks []Check) Summary {
	var s Summary
	for _, c := range checks {
		switch c.Severity {
		case SeverityBlocker:
			s.BlockersTotal++
			if c.Passed {
				s.BlockersPassed++
			}
		case SeverityWarning:
			s.WarningsTotal++
			if c.Passed {
				s.WarningsPassed++
			}
		}
	}
	s.CanGoLive = CanGoLive(checks)
	return s
}

// FailingBlockers devuelve los blockers no superados, en el orden recibido.
func FailingBlockers(checks []Check) []Check {
	out := make([]Check, 0)
	for _, c := range checks {
		if c.Severity == SeverityBlocker && !c.Passed {
			out = append(out, c)
		}
	}
	return out
}
