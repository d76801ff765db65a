package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"verbose": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStdLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Output: &buf})

	l.Info("ignored", nil)
	l.Warn("kept", map[string]any{"event_id": "evt-1"})

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "event_id=evt-1") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStdLogger_JSONWithBaseFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, App: "advisory-events", Output: &buf}).
		With(map[string]any{"component": "events"})

	l.Error("boom", map[string]any{"status": 500})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["app"] != "advisory-events" || entry["component"] != "events" || entry["level"] != "error" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	// No debe paniquear ni escribir en stdout.
	Nop().Error("x", map[string]any{"k": "v"})
}

func TestStdLogger_TextLineLayout(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := New(Options{
		Level:  Debug,
		Output: &buf,
		Fields: map[string]any{"storage": "memory"},
		Clock:  func() time.Time { return at },
	})

	l.With(map[string]any{"component": "events"}).Info("go-live refused", map[string]any{
		"event_id": "evt-1",
		"error":    errors.New("event not ready"),
		"":         "dropped",
	})

	want := `ts=2026-03-02T09:00:00Z level=info msg="go-live refused" component=events error="event not ready" event_id=evt-1 storage=memory` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestStdLogger_WithDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Options{Level: Debug, Output: &buf})
	_ = parent.With(map[string]any{"component": "copilot"})

	parent.Info("plain", nil)
	if strings.Contains(buf.String(), "component=") {
		t.Fatalf("child fields leaked into parent: %q", buf.String())
	}
}

func TestStdLogger_JSONErrorValuesAreText(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: ParseFormat(" JSON "), Output: &buf})

	l.Warn("seed workstreams failed", map[string]any{"error": errors.New("tx aborted")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["error"] != "tx aborted" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}
