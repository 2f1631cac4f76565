package gateway

import (
	"net/http"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	appmiddleware "github.com/Runyun19/arcane-arena-verify-bot/internal/transport/gateway/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds the HTTP surface: the authenticated relay event endpoint
// plus a health check.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// 20 events/second, burst 40 — a panel click spree from one community
	// stays well under this; a flood does not.
	eventRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	events := NewEventHandler(deps.Service, deps.Platform, cfg)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.Auth))
			r.With(eventRL.Limit).Post("/gateway/events", events.Handle)
		})
	})

	return r
}
