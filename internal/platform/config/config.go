package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config es la configuración del servicio HTTP, leída de variables de entorno.
type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	DBDSN string `env:"DB_DSN"` // vacío => storage en memoria

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"advisory-events"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
}

// Load parsea el entorno y valida lo mínimo para arrancar.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	return cfg, nil
}

// ParseEnv carga cualquier struct con tags `env`.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

func (c Config) AIEnabled() bool {
	return strings.TrimSpace(c.AnthropicAPIKey) != ""
}
