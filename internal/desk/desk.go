// Package desk wires the client engine together: token gate, document store,
// icon enrichment, settings editor, jiggle mode and drag sessions.
package desk

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/auth"
	"github.com/MrSnakeDoc/navdesk/internal/client"
	"github.com/MrSnakeDoc/navdesk/internal/clientconfig"
	"github.com/MrSnakeDoc/navdesk/internal/configstore"
	"github.com/MrSnakeDoc/navdesk/internal/dragdrop"
	"github.com/MrSnakeDoc/navdesk/internal/editmode"
	"github.com/MrSnakeDoc/navdesk/internal/editor"
	"github.com/MrSnakeDoc/navdesk/internal/iconresolve"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Remote is everything the engine needs from the server.
type Remote interface {
	auth.Remote
	configstore.Remote
}

type Desk struct {
	Gate     *auth.Gate
	Store    *configstore.Store
	Icons    *iconresolve.Enricher
	Editor   *editor.Editor
	EditMode *editmode.Controller
	Drags    *dragdrop.Registry

	log logger.Logger
}

// New builds a desk talking to the server named in cfg.
func New(cfg clientconfig.Config, log logger.Logger) (*Desk, error) {
	tokens, err := auth.NewDiskTokenStore(cfg.TokenDir)
	if err != nil {
		return nil, err
	}
	remote := client.New(cfg.Server, cfg.RequestTimeout, log)
	return Assemble(remote, tokens, iconresolve.NewResolver(cfg.IconTimeout, log), log), nil
}

// Assemble wires the components around the given collaborators.
func Assemble(remote Remote, tokens auth.TokenStore, res *iconresolve.Resolver, log logger.Logger) *Desk {
	gate := auth.NewGate(remote, tokens, log)
	store := configstore.New(remote, gate, log)
	d := &Desk{
		Gate:     gate,
		Store:    store,
		Icons:    iconresolve.NewEnricher(res, store, log),
		Editor:   editor.New(store, log),
		EditMode: editmode.New(),
		Drags:    dragdrop.NewRegistry(),
		log:      log.Named("desk"),
	}
	gate.OnReject(func(ctx context.Context) {
		if err := store.Load(ctx); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			d.log.Warn("reload after rejection failed", logger.Error(err))
		}
	})
	return d
}

// Start picks guest or owner mode and loads the document. A missing remote
// document is not an error: the bundled default is shown.
func (d *Desk) Start(ctx context.Context) (auth.Mode, error) {
	mode := d.Gate.Startup(ctx)
	if err := d.Store.Load(ctx); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return d.Gate.Mode(), err
	}
	d.log.Debug("started", logger.String("mode", d.Gate.Mode().String()))
	if mode != d.Gate.Mode() {
		d.log.Info("token dropped during load", logger.String("mode", d.Gate.Mode().String()))
	}
	return d.Gate.Mode(), nil
}

// Login authenticates and reloads the owner view.
func (d *Desk) Login(ctx context.Context, password string) error {
	if err := d.Gate.Login(ctx, password); err != nil {
		return err
	}
	if err := d.Store.Load(ctx); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return nil
}

// Logout drops the token and reloads the guest view.
func (d *Desk) Logout(ctx context.Context) error {
	d.Gate.Logout()
	d.EditMode.Escape()
	d.Editor.Cancel()
	if err := d.Store.Load(ctx); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return nil
}

// Drop resolves the payload of a drag session against target and applies it.
func (d *Desk) Drop(sessionID string, target dragdrop.Target) (dragdrop.Action, error) {
	p, ok := d.Drags.Get(sessionID)
	if !ok {
		return dragdrop.ActionNone, fmt.Errorf("unknown drag session %q", sessionID)
	}
	defer d.Drags.End(sessionID)
	return d.DropPayload(p, target)
}

// DropPayload applies a decoded payload to target.
func (d *Desk) DropPayload(p dragdrop.Payload, target dragdrop.Target) (dragdrop.Action, error) {
	drop := dragdrop.Resolve(target, p)
	if drop.Action == dragdrop.ActionNone {
		return drop.Action, nil
	}
	if err := d.Store.Transform(drop.Transform); err != nil {
		return dragdrop.ActionNone, err
	}
	if drop.Action == dragdrop.ActionCopyToDock && p.Link.Icon == "" && p.Link.IconText == "" {
		d.Icons.Enrich(p.Link.URL)
	}
	return drop.Action, nil
}

// SaveEdit saves the open editor session and starts icon resolution for a
// saved link or dock item that has no representation of its own.
func (d *Desk) SaveEdit() error {
	in, ok := d.Editor.Working()
	if !ok {
		return editor.ErrNoSession
	}
	if err := d.Editor.Save(); err != nil {
		return err
	}
	switch x := in.(type) {
	case editor.EditLink:
		if x.Link.Icon == "" && x.Link.IconText == "" {
			d.Icons.Enrich(x.Link.URL)
		}
	case editor.EditDock:
		if x.Item.URL != "" && x.Item.Icon == "" && x.Item.IconText == "" && x.Item.Emoji == "" {
			d.Icons.Enrich(x.Item.URL)
		}
	}
	return nil
}

// DeleteLink removes a card straight away. Only allowed in jiggle mode.
func (d *Desk) DeleteLink(category, index int) error {
	if !d.EditMode.ShowDelete() {
		return errors.New("delete requires edit mode")
	}
	c, err := editor.DeleteLink(d.Store.Snapshot(), category, index)
	if err != nil {
		return err
	}
	return d.Store.Transform(c.Transform)
}

// EnrichAll starts icon resolution for every record lacking a representation.
func (d *Desk) EnrichAll() int {
	return d.Icons.EnrichMissing(d.Store.Snapshot())
}

// Snapshot is the current document.
func (d *Desk) Snapshot() *nav.Document { return d.Store.Snapshot() }

// Drain waits for in-flight icon resolutions to write back, up to ctx, and
// then closes. Hosts that exit right after an edit use it instead of Close.
func (d *Desk) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.Icons.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.log.Warn("icon resolution still running at exit", logger.Error(ctx.Err()))
	}
	return d.Close(ctx)
}

// Close stops background work and flushes pending saves.
func (d *Desk) Close(ctx context.Context) error {
	d.EditMode.Close()
	d.Icons.Close()
	return d.Store.Close(ctx)
}
