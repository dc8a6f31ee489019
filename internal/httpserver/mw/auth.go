package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/security"
)

type ctxKey int

const ownerKey ctxKey = iota

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Authenticate marks requests carrying a valid bearer token as the owner's.
// Requests without a token pass through as guests; an invalid or expired
// token is rejected with 401 so the client drops it.
func Authenticate(tokens TokenVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := tokens.Verify(token); err != nil {
				log.Debug("bearer token rejected", logger.Error(err))
				deny(w, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, true)))
		})
	}
}

// RequireOwner answers 401 unless Authenticate accepted a token.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsOwner(r.Context()) {
			deny(w, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func IsOwner(ctx context.Context) bool {
	v, _ := ctx.Value(ownerKey).(bool)
	return v
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}
