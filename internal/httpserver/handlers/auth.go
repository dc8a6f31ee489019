package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges the owner password for a bearer token.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(loginDuration)
		defer timer.ObserveDuration()

		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil || req.Password == "" {
			loginAttempts.WithLabelValues("failure").Inc()
			writeError(w, http.StatusBadRequest, "password required")
			return
		}

		if !d.Password.Check(req.Password) {
			loginAttempts.WithLabelValues("failure").Inc()
			d.Logger.Warn("login failed", logger.String("remote_addr", r.RemoteAddr))
			writeError(w, http.StatusUnauthorized, "invalid password")
			return
		}

		token, exp, err := d.Tokens.Issue()
		if err != nil {
			loginAttempts.WithLabelValues("failure").Inc()
			d.Logger.Error("failed to issue token", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		loginAttempts.WithLabelValues("success").Inc()
		d.Logger.Info("owner logged in")
		writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp})
	}
}

// Verify answers 200 for a valid token; the middleware already rejected
// anything else.
func Verify(_ deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}
