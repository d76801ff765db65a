package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanGoLive_WarningsNeverBlock(t *testing.T) {
	checks := []Check{
		{ID: "a", Severity: SeverityBlocker, Passed: true},
		{ID: "b", Severity: SeverityWarning, Passed: false},
		{ID: "c", Severity: SeverityWarning, Passed: false},
	}
	assert.True(t, CanGoLive(checks))

	checks = append(checks, Check{ID: "d", Severity: SeverityBlocker, Passed: false})
	assert.False(t, CanGoLive(checks))
}

func TestCanGoLive_EmptyList(t *testing.T) {
	assert.True(t, CanGoLive(nil))
}

func TestSummarize_ConsistentWithCanGoLive(t *testing.T) {
	s := readySnapshot()
	s.SelectedWeek = nil
	s.BudgetPlanned = ptr(1.0)

	checks := Evaluate(s)
	sum := Summarize(checks)

	assert.Equal(t, 6, sum.BlockersTotal)
	assert.Equal(t, 5, sum.BlockersPassed)
	assert.Equal(t, 4, sum.WarningsTotal)
	assert.Equal(t, 3, sum.WarningsPassed)
	assert.Equal(t, CanGoLive(checks), sum.CanGoLive)
	assert.False(t, sum.CanGoLive)
}

func TestSummarize_OrderIndependent(t *testing.T) {
	checks := Evaluate(Snapshot{})
	reversed := make([]Check, len(checks))
	for i, c := range checks {
		reversed[len(checks)-1-i] = c
	}
	assert.Equal(t, Summarize(checks), Summarize(reversed))
}

func TestFailingBlockers_KeepsCatalogOrder(t *testing.T) {
	failing := FailingBlockers(Evaluate(Snapshot{}))
	require.Len(t, failing, 2)
	assert.Equal(t, "hotel-contracted", failing[0].ID)
	assert.Equal(t, "date-selected", failing[1].ID)
}

func TestAttempt_ReadyTransitions(t *testing.T) {
	v := Attempt(readySnapshot())
	assert.True(t, v.Transition)
	assert.False(t, v.Forced)
	assert.Empty(t, v.FailingBlockers)
	assert.Len(t, v.Checks, 10)
	assert.True(t, v.Summary.CanGoLive)
}

func TestAttempt_RefusesAndReportsBlockers(t *testing.T) {
	s := readySnapshot()
	s.SelectedWeek = nil

	v := Attempt(s)
	assert.False(t, v.Transition)
	require.Len(t, v.FailingBlockers, 1)
	assert.Equal(t, "date-selected", v.FailingBlockers[0].ID)
}

func TestForce_JustifiedOverrideKeepsFailingBlockers(t *testing.T) {
	s := readySnapshot()
	s.Participants[0].VisaStatus = VisaPending

	_, err := Force(s, "")
	require.ErrorIs(t, err, ErrJustificationRequired)

	_, err = Force(s, "   \t")
	require.ErrorIs(t, err, ErrJustificationRequired)

	v, err := Force(s, "CEO approved despite pending visa")
	require.NoError(t, err)
	assert.True(t, v.Transition)
	assert.True(t, v.Forced)
	assert.Equal(t, "CEO approved despite pending visa", v.Justification)
	assert.False(t, v.Summary.CanGoLive)
	require.Len(t, v.FailingBlockers, 1)
	assert.Equal(t, "visas-approved", v.FailingBlockers[0].ID)
}
