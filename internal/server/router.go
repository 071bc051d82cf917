package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lanewise/lanewise/internal/api"
	"github.com/lanewise/lanewise/internal/api/handlers"
	"github.com/lanewise/lanewise/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator  middleware.AuthValidator
	SearchHandler  *handlers.SearchHandler
	CompanyHandler *handlers.CompanyHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Route("/companies", func(r chi.Router) {
			r.Post("/search", cfg.SearchHandler.Search)
			r.Get("/filters", cfg.SearchHandler.FilterOptions)

			r.Route("/saved", func(r chi.Router) {
				r.Post("/", cfg.CompanyHandler.Save)
				r.Get("/", cfg.CompanyHandler.List)
				r.Delete("/{id}", cfg.CompanyHandler.Delete)
			})
		})
	})

	return r
}
