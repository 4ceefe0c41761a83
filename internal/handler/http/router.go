package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/overtime-backend-go/internal/config"
	"github.com/cmlabs-hris/overtime-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(cfg config.AppConfig, overtimeHandler OvertimeHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Name),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.ConfirmHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/overtime", func(r chi.Router) {
			r.Route("/months", func(r chi.Router) {
				r.Get("/", overtimeHandler.ListMonths)
				r.Route("/{month}/employees", func(r chi.Router) {
					r.Get("/", overtimeHandler.ListEmployees)
					r.Get("/{name}", overtimeHandler.GetRecap)
					r.Get("/{name}/export", overtimeHandler.ExportRecap)
				})
			})

			r.Route("/records", func(r chi.Router) {
				r.Get("/", overtimeHandler.ListRecords)
				r.Post("/", overtimeHandler.UpsertRecord)
				r.With(middleware.RequireConfirmation).Delete("/", overtimeHandler.ClearRecords)
			})

			r.Route("/imports", func(r chi.Router) {
				r.Post("/text", overtimeHandler.ImportText)
				r.Post("/observations", overtimeHandler.ImportObservations)
			})

			r.Post("/calculate", overtimeHandler.Calculate)
			r.Get("/events", overtimeHandler.Stream)
		})
	})
	return r
}
