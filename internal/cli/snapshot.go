package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"advisory-events/internal/domain/readiness"
)

// snapshotFile acepta selected_week como YYYY-MM-DD o RFC3339.
type snapshotFile struct {
	readiness.Snapshot
	SelectedWeek string `json:"selected_week"`
}

// loadSnapshot lee el snapshot de path; "-" => stdin.
func loadSnapshot(path string, stdin io.Reader) (readiness.Snapshot, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return readiness.Snapshot{}, err
		}
		defer f.Close()
		r = f
	}

	var in snapshotFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return readiness.Snapshot{}, fmt.Errorf("invalid snapshot json: %w", err)
	}

	s := in.Snapshot
	if w := strings.TrimSpace(in.SelectedWeek); w != "" {
		t, err := parseWeek(w)
		if err != nil {
			return readiness.Snapshot{}, err
		}
		s.SelectedWeek = &t
	}
	return s, nil
}

func parseWeek(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("selected_week must be YYYY-MM-DD or RFC3339, got %q", v)
	}
	return t, nil
}
