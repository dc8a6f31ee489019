// Package editor is the settings panel's form router: one edit session at a
// time, holding a working copy that only reaches the document on Save.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

var (
	// ErrNoSession is returned when no editor is open.
	ErrNoSession = errors.New("no edit session")
	// ErrMismatch is returned when an update targets another entity than the open session.
	ErrMismatch = errors.New("update does not match the open session")
)

// Transformer is the store's mutation path.
type Transformer interface {
	Transform(f func(*nav.Document) *nav.Document) error
}

type Editor struct {
	store Transformer
	log   logger.Logger

	mu      sync.Mutex
	opened  Intent // as announced, for idempotent reopening
	working Intent
	queue   []Intent
}

func New(store Transformer, log logger.Logger) *Editor {
	return &Editor{store: store, log: log.Named("editor")}
}

// Open starts a session on a working copy of in. Reopening the session that
// is already open keeps its working copy; any other session is replaced.
func (e *Editor) Open(in Intent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openLocked(in)
}

func (e *Editor) openLocked(in Intent) bool {
	if e.opened != nil && sameIntent(e.opened, in) {
		return false
	}
	e.opened = copyIntent(in)
	e.working = copyIntent(in)
	return true
}

// Working returns the working copy, or false when closed.
func (e *Editor) Working() (Intent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.working == nil {
		return nil, false
	}
	return copyIntent(e.working), true
}

// Update replaces the working copy. The intent must target the open entity.
func (e *Editor) Update(in Intent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.working == nil {
		return ErrNoSession
	}
	if !sameTarget(e.working, in) {
		return ErrMismatch
	}
	e.working = copyIntent(in)
	return nil
}

// Save validates the working copy and commits it as one transform. On a
// validation error the session stays open.
func (e *Editor) Save() error {
	e.mu.Lock()
	in := e.working
	e.mu.Unlock()
	if in == nil {
		return ErrNoSession
	}

	if err := in.validate(); err != nil {
		return err
	}

	if c, ok := in.(Confirm); ok && c.Do != nil {
		if err := c.Do(); err != nil {
			return fmt.Errorf("%s: %w", c.Action, err)
		}
		e.close(in)
		return nil
	}

	var applyErr error
	err := e.store.Transform(func(doc *nav.Document) *nav.Document {
		next, err := in.apply(doc)
		if err != nil {
			applyErr = err
			return nil
		}
		return next
	})
	if err == nil {
		err = applyErr
	}
	if err != nil {
		e.log.Debug("save refused", logger.String("kind", in.Kind().String()), logger.Error(err))
		return err
	}

	e.log.Debug("saved", logger.String("kind", in.Kind().String()))
	e.close(in)
	return nil
}

// Cancel discards the working copy.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.opened, e.working = nil, nil
	e.mu.Unlock()
}

// Announce queues a request to open an editor, e.g. from a context menu.
// A request identical to the last queued one or to the open session is dropped.
func (e *Editor) Announce(in Intent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := len(e.queue); n > 0 && sameIntent(e.queue[n-1], in) {
		return
	}
	e.queue = append(e.queue, copyIntent(in))
}

// Drain opens queued requests in order and reports how many changed the session.
func (e *Editor) Drain() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	opened := 0
	for _, in := range e.queue {
		if e.openLocked(in) {
			opened++
		}
	}
	e.queue = nil
	return opened
}

// close ends the session if it is still the one that was saved.
func (e *Editor) close(saved Intent) {
	e.mu.Lock()
	if e.working != nil && sameTarget(e.working, saved) {
		e.opened, e.working = nil, nil
	}
	e.mu.Unlock()
}

// copyIntent deep-copies the slices inside an intent.
func copyIntent(in Intent) Intent {
	switch x := in.(type) {
	case EditLink:
		x.Link = x.Link.Clone()
		return x
	}
	return in
}
