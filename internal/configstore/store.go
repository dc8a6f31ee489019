// Package configstore owns the single in-memory document. Every mutation is a
// pure transform committed locally first and then persisted in the background.
package configstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// ErrClosed is returned by mutations after Close.
var ErrClosed = errors.New("config store closed")

// Remote loads and saves the document.
type Remote interface {
	Fetch(ctx context.Context, token string) (*nav.Document, error)
	Save(ctx context.Context, token string, doc *nav.Document) error
}

// Gate provides the token and handles its rejection.
type Gate interface {
	Token() string
	Clear()
	Reject(ctx context.Context)
}

type Option func(*Store)

// WithClock overrides time.Now for export names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithInitial sets the document shown before the first Load.
func WithInitial(doc *nav.Document) Option {
	return func(s *Store) { s.doc = doc }
}

type Store struct {
	remote Remote
	gate   Gate
	log    logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	doc     *nav.Document
	version uint64
	closed  bool

	subMu sync.Mutex
	subs  []func(version uint64)

	q *saveQueue
}

// New starts the persistence worker. The store holds the bundled default
// until Load succeeds.
func New(remote Remote, gate Gate, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		gate:   gate,
		log:    log.Named("configstore"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.doc == nil {
		s.doc = nav.Default()
	}
	s.q = newSaveQueue(s.persist)
	return s
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() *nav.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Version increases on every commit.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers f to run after every commit, outside the store lock.
func (s *Store) Subscribe(f func(version uint64)) {
	s.subMu.Lock()
	s.subs = append(s.subs, f)
	s.subMu.Unlock()
}

// Transform applies f to a copy of the document and commits the result. A nil
// result leaves everything untouched. A commit queues exactly one save; the
// caller does not wait for it. Guests get ErrReadOnly.
func (s *Store) Transform(f func(*nav.Document) *nav.Document) error {
	version, err := s.transform(f)
	if err != nil || version == 0 {
		return err
	}
	s.notify(version)
	return nil
}

func (s *Store) transform(f func(*nav.Document) *nav.Document) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	token := s.gate.Token()
	if token == "" {
		return 0, apperr.ErrReadOnly
	}

	next := f(s.doc.Clone())
	if next == nil {
		return 0, nil
	}
	s.commitLocked(next)
	// enqueued under mu so saves leave in commit order
	s.q.push(saveJob{version: s.version, token: token, doc: next.Clone()})
	return s.version, nil
}

// Load fetches the document with the current token. A rejected token is
// dropped and the guest view fetched instead. When the server has no
// document the bundled default is installed and ErrNotFound returned. Other
// failures keep the current document.
func (s *Store) Load(ctx context.Context) error {
	doc, err := s.fetch(ctx)
	switch {
	case err == nil:
		s.replace(doc)
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		s.log.Info("no remote document, using bundled default")
		s.replace(nav.Default())
		return apperr.ErrNotFound
	default:
		s.log.Warn("load failed, keeping current document", logger.Error(err))
		return fmt.Errorf("load: %w", err)
	}
}

// Reset replaces the document with a fresh fetch, or the bundled default if
// the fetch fails. It never writes.
func (s *Store) Reset(ctx context.Context) error {
	doc, err := s.fetch(ctx)
	if err != nil {
		s.log.Info("reset falls back to bundled default", logger.Error(err))
		doc = nav.Default()
	}
	s.replace(doc)
	return nil
}

// ExportSnapshot serializes the current document and names the file after
// the current time.
func (s *Store) ExportSnapshot() (name string, text []byte, err error) {
	text, err = nav.Marshal(s.Snapshot())
	if err != nil {
		return "", nil, err
	}
	return "nav-" + s.now().Format("20060102-150405") + ".yaml", text, nil
}

// ImportSnapshot parses text and commits it as one transform. On a parse
// error the document is not touched.
func (s *Store) ImportSnapshot(text []byte) error {
	doc, err := nav.Parse(text)
	if err != nil {
		return err
	}
	return s.Transform(func(*nav.Document) *nav.Document { return doc })
}

// Close refuses further mutations and waits for queued saves, up to ctx.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.q.close(ctx)
}

func (s *Store) fetch(ctx context.Context) (*nav.Document, error) {
	token := s.gate.Token()
	doc, err := s.remote.Fetch(ctx, token)
	if token != "" && errors.Is(err, apperr.ErrUnauthorized) {
		s.log.Info("token rejected on load, fetching guest view")
		s.gate.Clear()
		doc, err = s.remote.Fetch(ctx, "")
	}
	return doc, err
}

func (s *Store) replace(doc *nav.Document) {
	s.mu.Lock()
	s.commitLocked(doc)
	v := s.version
	s.mu.Unlock()
	s.notify(v)
}

func (s *Store) commitLocked(doc *nav.Document) {
	s.doc = doc
	s.version++
}

func (s *Store) notify(version uint64) {
	s.subMu.Lock()
	subs := make([]func(uint64), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, f := range subs {
		f(version)
	}
}

// persist runs on the save worker.
func (s *Store) persist(ctx context.Context, job saveJob) {
	if cur := s.gate.Token(); cur != job.token {
		// token was dropped or replaced since the commit
		s.log.Debug("skipping save with stale token", logger.Uint64("version", job.version))
		return
	}

	err := s.remote.Save(ctx, job.token, job.doc)
	switch {
	case err == nil:
		s.log.Debug("saved", logger.Uint64("version", job.version))
	case errors.Is(err, apperr.ErrUnauthorized):
		s.log.Warn("save rejected", logger.Uint64("version", job.version))
		s.gate.Reject(ctx)
	default:
		s.log.Warn("save failed", logger.Uint64("version", job.version), logger.Error(err))
	}
}
