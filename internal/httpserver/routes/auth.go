package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LoginBurst,
		RefillPerIPPerMin: d.LoginRefill,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	}, d.Logger)

	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), limit).Post("/api/login", handlers.Login(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.Authenticate(d.Tokens, d.Logger), mw.RequireOwner).
		Get("/api/verify", handlers.Verify(d))
}
