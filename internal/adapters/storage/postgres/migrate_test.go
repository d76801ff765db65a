package postgres

import (
	"io/fs"
	"strings"
	"testing"
)

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"
	got := ExtractUpMigration(content)
	if !strings.Contains(got, "CREATE TABLE a") || strings.Contains(got, "DROP TABLE") {
		t.Fatalf("unexpected up section: %q", got)
	}

	plain := "CREATE TABLE b (id TEXT);"
	if ExtractUpMigration(plain) != plain {
		t.Fatalf("content without markers must be returned as-is")
	}
}

func TestEmbeddedMigrations_CreateEveryTable(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one migration")
	}

	content, err := fs.ReadFile(migrationsFS, "migrations/0001_init.sql")
	if err != nil {
		t.Fatalf("read 0001_init.sql: %v", err)
	}
	up := ExtractUpMigration(string(content))
	for _, table := range []string{
		"events", "participants", "vendors", "workstreams",
		"tasks", "company_visits", "budget_lines", "audit_logs",
	} {
		if !strings.Contains(up, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("missing table %s in up migration", table)
		}
	}
	if strings.Contains(up, "DROP TABLE") {
		t.Fatalf("up section must not drop tables")
	}
}
