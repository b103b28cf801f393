package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware, the
// JSON API, and the HTML review pages.
func NewRouter(cfg *config.Config, svc *review.Service, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	viewHandler := handler.NewViewHandler(svc, logger)
	r.Get("/prs/{uuid}", viewHandler.Show)

	r.Route("/api/v1", func(r chi.Router) {
		prHandler := handler.NewPRHandler(cfg, svc, logger)
		r.Route("/prs", func(r chi.Router) {
			r.Post("/", prHandler.Create)
			r.Get("/", prHandler.List)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Get("/", prHandler.Get)
				r.Get("/diff", prHandler.GetDiff)
				r.Post("/diff", prHandler.Update)
				r.Get("/revisions", prHandler.ListRevisions)
				r.Put("/status", prHandler.SetStatus)
				r.Post("/merge", prHandler.Merge)
				r.Get("/comments", prHandler.ListComments)
				r.Post("/comments", prHandler.AddComment)
				r.Post("/comments/{comment}/replies", prHandler.Reply)
				r.Post("/comments/{comment}/resolve", prHandler.Resolve)
			})
		})
	})

	return r
}
