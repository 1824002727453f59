package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRouter wires the REST surface. limiter may be nil, in which case no
// rate limiting is applied.
func SetupRouter(h *Handler, limiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		// public share view, no account or password involved
		r.Get("/shared/{token}", h.ViewShare)

		r.Route("/{alias}", func(r chi.Router) {
			r.Get("/", h.GetAccountOverview)

			r.Route("/folders", func(r chi.Router) {
				r.Post("/", h.CreateFolder)
				r.Get("/{folderID}", h.GetFolder)
				r.Put("/{folderID}", h.UpdateFolder)
				r.Delete("/{folderID}", h.DeleteFolder)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", h.CreateNote)
				r.Get("/{noteID}", h.GetNote)
				r.Put("/{noteID}", h.UpdateNote)
				r.Delete("/{noteID}", h.DeleteNote)

				r.Post("/{noteID}/share", h.CreateShare)
				r.Delete("/{noteID}/share", h.DeleteShare)
			})
		})
	})

	return r
}
