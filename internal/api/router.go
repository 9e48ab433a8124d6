package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/maurobossio/portfolio/internal/siteservice"
)

// NewRouter creates a chi router with all API routes mounted. allowedOrigins
// is the CORS allow-list for browser clients served from other origins.
func NewRouter(svc *siteservice.Service, allowedOrigins []string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/projects", h.ListProjects)
	r.Post("/contact", h.Contact)

	return r
}
