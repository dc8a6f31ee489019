package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/mw"
)

func init() { Register(registerOps) }

// Ops endpoints are restricted to the allowed CIDRs; reload also checks the host.
func registerOps(r chi.Router, d deps.Deps) {
	guard := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		r.Handle("/metrics", handlers.Metrics())
		r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
	})
}
