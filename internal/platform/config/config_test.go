package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_LEVEL", "OTEL_ENDPOINT", "ANTHROPIC_API_KEY", "HTTP_WRITE_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Addr())
	}
	if cfg.UsePostgres() || cfg.AIEnabled() {
		t.Fatalf("expected memory storage and AI disabled by default")
	}
	if cfg.WriteTimeout != 60*time.Second {
		t.Fatalf("unexpected write timeout %v", cfg.WriteTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DSN", "postgres://localhost/events")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("HTTP_READ_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":9090" || !cfg.UsePostgres() || !cfg.AIEnabled() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected read timeout %v", cfg.ReadTimeout)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
