// Package auth owns the token that gates mutation of the document.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
)

// Mode is the view the session runs in.
type Mode int

const (
	ModeGuest Mode = iota
	ModeOwner
)

func (m Mode) String() string {
	if m == ModeOwner {
		return "owner"
	}
	return "guest"
}

// Remote is the part of the collaborator the gate talks to.
type Remote interface {
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, password string) (string, error)
}

// Gate holds the token. It is read before every remote call and written only
// by Login, Logout and the rejection path.
type Gate struct {
	remote Remote
	store  TokenStore
	log    logger.Logger

	mu    sync.RWMutex
	token string

	reload    func(ctx context.Context)
	reloading atomic.Bool
}

func NewGate(remote Remote, store TokenStore, log logger.Logger) *Gate {
	return &Gate{
		remote: remote,
		store:  store,
		log:    log.Named("auth"),
	}
}

// OnReject registers the forced-reload hook run after a token is rejected.
func (g *Gate) OnReject(f func(ctx context.Context)) {
	g.mu.Lock()
	g.reload = f
	g.mu.Unlock()
}

// Startup restores the stored token and verifies it to pick the view.
// A transport failure keeps the token: the server rejects writes later if it
// really is invalid.
func (g *Gate) Startup(ctx context.Context) Mode {
	token, err := g.store.Load()
	if err != nil {
		g.log.Warn("token store unreadable", logger.Error(err))
	}
	if token == "" {
		return ModeGuest
	}

	g.set(token)
	err = g.remote.Verify(ctx, token)
	switch {
	case err == nil:
		return ModeOwner
	case errors.Is(err, apperr.ErrUnauthorized):
		g.log.Info("stored token rejected")
		g.clear()
		return ModeGuest
	default:
		g.log.Warn("token verification failed, keeping token", logger.Error(err))
		return ModeOwner
	}
}

// Login exchanges the password for a token and persists it.
func (g *Gate) Login(ctx context.Context, password string) error {
	token, err := g.remote.Login(ctx, password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			return apperr.ErrUnauthorized
		}
		return fmt.Errorf("login: %w", err)
	}
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	g.set(token)
	if err := g.store.Save(token); err != nil {
		g.log.Warn("token not persisted", logger.Error(err))
	}
	g.log.Info("logged in")
	return nil
}

// Logout forgets the token.
func (g *Gate) Logout() {
	g.clear()
	g.log.Info("logged out")
}

// Token returns the current token, "" in guest mode.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

func (g *Gate) Mode() Mode {
	if g.Token() == "" {
		return ModeGuest
	}
	return ModeOwner
}

// Clear drops the token without forcing a reload.
func (g *Gate) Clear() { g.clear() }

// Reject drops the token and forces a reload. Rejections arriving while a
// reload runs are absorbed by it.
func (g *Gate) Reject(ctx context.Context) {
	g.clear()
	if !g.reloading.CompareAndSwap(false, true) {
		return
	}
	defer g.reloading.Store(false)

	g.mu.RLock()
	reload := g.reload
	g.mu.RUnlock()

	g.log.Warn("token rejected, reloading")
	if reload != nil {
		reload(ctx)
	}
}

// SetBearer attaches token to req. An empty token leaves req anonymous.
func SetBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (g *Gate) set(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func (g *Gate) clear() {
	g.set("")
	if err := g.store.Clear(); err != nil {
		g.log.Warn("token not erased", logger.Error(err))
	}
}
