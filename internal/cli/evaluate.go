package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"advisory-events/internal/domain/readiness"

	"github.com/spf13/cobra"
)

type report struct {
	EventID         string            `json:"event_id,omitempty"`
	Checks          []readiness.Check `json:"checks"`
	Summary         readiness.Summary `json:"summary"`
	Forced          bool              `json:"forced,omitempty"`
	Justification   string            `json:"justification,omitempty"`
	FailingBlockers []readiness.Check `json:"failing_blockers"`
}

func newEvaluateCmd() *cobra.Command {
	var (
		file    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evalúa el checklist go/no-go de un snapshot",
		Long:  "Evalúa los 10 checks del go/no-go. Sale con error si algún blocker falla.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			v := readiness.Attempt(snap)
			rep := report{
				EventID:         snap.EventID,
				Checks:          v.Checks,
				Summary:         v.Summary,
				FailingBlockers: readiness.FailingBlockers(v.Checks),
			}
			if err := writeReport(cmd.OutOrStdout(), rep, jsonOut); err != nil {
				return err
			}

			if !v.Transition {
				return fmt.Errorf("no-go: %d blocker(s) failing", len(rep.FailingBlockers))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON (\"-\" para stdin)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "salida JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newForceCmd() *cobra.Command {
	var (
		file          string
		justification string
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "force",
		Short: "Fuerza el go-live de un snapshot con justificación",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			v, err := readiness.Force(snap, justification)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report{
				EventID:         snap.EventID,
				Checks:          v.Checks,
				Summary:         v.Summary,
				Forced:          true,
				Justification:   v.Justification,
				FailingBlockers: v.FailingBlockers,
			}, jsonOut)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON (\"-\" para stdin)")
	cmd.Flags().StringVar(&justification, "justification", "", "motivo del go-live forzado (obligatorio)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "salida JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func writeReport(w io.Writer, rep report, jsonOut bool) error {
	if rep.FailingBlockers == nil {
		rep.FailingBlockers = []readiness.Check{}
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	for _, c := range rep.Checks {
		mark := "OK"
		if !c.Passed {
			mark = "KO"
		}
		fmt.Fprintf(w, "[%s] %-8s %-20s %s", mark, strings.ToUpper(string(c.Severity)), c.ID, c.Label)
		if c.Details != "" {
			fmt.Fprintf(w, " (%s)", c.Details)
		}
		fmt.Fprintln(w)
	}

	verdict := "NO-GO"
	switch {
	case rep.Forced:
		verdict = "FORCED GO"
	case rep.Summary.CanGoLive:
		verdict = "GO"
	}
	fmt.Fprintf(w, "\nBlockers %d/%d, warnings %d/%d: %s\n",
		rep.Summary.BlockersPassed, rep.Summary.BlockersTotal,
		rep.Summary.WarningsPassed, rep.Summary.WarningsTotal, verdict)
	if rep.Forced {
		fmt.Fprintf(w, "Justification: %s\n", rep.Justification)
	}
	return nil
}
