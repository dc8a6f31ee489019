package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/mw"
)

func init() { Register(registerConfig) }

func registerConfig(r chi.Router, d deps.Deps) {
	r.Route("/api/config", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.Authenticate(d.Tokens, d.Logger))
		r.Get("/", handlers.GetConfig(d))
		r.With(mw.RequireOwner).Put("/", handlers.PutConfig(d))
	})
}
