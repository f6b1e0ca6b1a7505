package routes

import (
	"net/http"

	"relief-bknd/internal/config"
	"relief-bknd/internal/geo"
	"relief-bknd/internal/handlers"
	"relief-bknd/internal/logger"
	"relief-bknd/internal/services"
	"relief-bknd/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(st store.Store, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	resolver := geo.NewResolver(cfg)

	lifecycleSvc := services.NewLifecycle(st, resolver)
	matcherSvc := services.NewMatcher(st)
	analyticsSvc := services.NewAnalytics(st)

	requestHandler := handlers.NewRequestHandler(lifecycleSvc, logr.Logger)
	matchHandler := handlers.NewMatchHandler(matcherSvc, logr.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestHandler.Create)
			r.Get("/", requestHandler.List)

			// Fixed paths before the id wildcard
			r.Get("/nearby", matchHandler.Nearby)
			r.Get("/summary", analyticsHandler.Summary)
			r.Get("/export", analyticsHandler.Export)

			r.Get("/{id}", requestHandler.Get)
			r.Post("/{id}/accept", requestHandler.Accept)
			r.Post("/{id}/advance", requestHandler.Advance)
		})

	})

	return r
}
