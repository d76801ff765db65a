package router

import (
	"database/sql"
	"net/http"

	_ "advisory-events/docs"
	mem "advisory-events/internal/adapters/storage/memory"
	pg "advisory-events/internal/adapters/storage/postgres"
	"advisory-events/internal/domain/audit"
	"advisory-events/internal/domain/copilot"
	"advisory-events/internal/domain/events"
	"advisory-events/internal/domain/logistics"
	"advisory-events/internal/middleware"
	"advisory-events/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger // nil => Nop

	// Opcional: si viene, usa Postgres (ya migrado). Si no, in-memory.
	DB *sql.DB

	// Opcional: sin generator, POST /ai/generate responde 503.
	Generator copilot.Generator
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OperatorContext)
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		eventRepo     events.Repository
		logisticsRepo logistics.Repository
		auditRepo     audit.Repository
	)

	if opts.DB != nil {
		eventRepo = pg.NewEventsRepo(opts.DB)
		logisticsRepo = pg.NewLogisticsRepo(opts.DB)
		auditRepo = pg.NewAuditRepo(opts.DB)
	} else {
		eventRepo = mem.NewEventRepo()
		logisticsRepo = mem.NewLogisticsRepo()
		auditRepo = mem.NewAuditRepo()
	}

	// Services por módulo
	logisticsSvc := logistics.NewService(logisticsRepo, log)
	auditSvc := audit.NewService(auditRepo)
	eventsSvc := events.NewService(eventRepo, logisticsSvc, auditSvc, log)
	copilotSvc := copilot.NewService(opts.Generator, eventsSvc, auditSvc, log)

	// Rutas por módulo
	events.RegisterRoutes(r, eventsSvc)
	logistics.RegisterRoutes(r, logisticsSvc, eventsSvc)
	audit.RegisterRoutes(r, auditSvc)
	copilot.RegisterRoutes(r, copilotSvc)

	return r
}
