// @title Advisory Events API
// @version 1.0
// @description Go/no-go de eventos AC/AB: eventos, logística, checklist de preparación, auditoría y copiloto IA.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advisory-events/internal/adapters/llm/anthropic"
	pg "advisory-events/internal/adapters/storage/postgres"
	"advisory-events/internal/platform/config"
	"advisory-events/internal/platform/logger"
	platformotel "advisory-events/internal/platform/otel"
	"advisory-events/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	storage := "memory"
	if cfg.UsePostgres() {
		storage = "postgres"
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Fields: map[string]any{"storage": storage},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := platformotel.Setup(ctx, platformotel.Options{
		ServiceName: cfg.AppName,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		log.Warn("tracing disabled", map[string]any{"error": err.Error()})
	}

	opts := router.Options{Logger: log}

	if cfg.UsePostgres() {
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()

		if err := pg.Migrate(ctx, db); err != nil {
			log.Error("migrations failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	}

	if cfg.AIEnabled() {
		client, err := anthropic.NewClient(anthropic.Config{
			BaseURL: cfg.AnthropicBaseURL,
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
		})
		if err != nil {
			log.Error("anthropic client", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Generator = client
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", map[string]any{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}
