package iconresolve

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Transformer is the mutation path icons are written back through.
type Transformer interface {
	Transform(f func(*nav.Document) *nav.Document) error
}

// Enricher resolves icons in the background for records that have none and
// writes the result back as a normal transform.
type Enricher struct {
	res   *Resolver
	store Transformer
	log   logger.Logger

	group    singleflight.Group
	wg       sync.WaitGroup
	resolved atomic.Int64

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	alive  bool
}

func NewEnricher(res *Resolver, store Transformer, log logger.Logger) *Enricher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Enricher{
		res:    res,
		store:  store,
		log:    log.Named("enricher"),
		ctx:    ctx,
		cancel: cancel,
		alive:  true,
	}
}

// Enrich starts a resolution for rawURL. It returns false if the enricher is closed.
func (e *Enricher) Enrich(rawURL string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.alive {
		return false
	}
	e.wg.Add(1)
	go e.run(rawURL)
	return true
}

// EnrichMissing starts a resolution for every link and dock item, in both dock
// sections, that has a URL but neither an icon nor a text label. It returns
// how many distinct URLs it started.
func (e *Enricher) EnrichMissing(doc *nav.Document) int {
	seen := map[string]bool{}
	started := 0
	visit := func(url, icon, text string) {
		if url == "" || icon != "" || text != "" || seen[url] {
			return
		}
		seen[url] = true
		if e.Enrich(url) {
			started++
		}
	}
	for _, c := range doc.Categories {
		for _, l := range c.Links {
			visit(l.URL, l.Icon, l.IconText)
		}
	}
	for _, items := range [][]nav.DockItem{doc.Dock.Items, doc.Dock.Utilities} {
		for _, d := range items {
			if !d.IsCommand() {
				visit(d.URL, d.Icon, d.IconText+d.Emoji)
			}
		}
	}
	return started
}

func (e *Enricher) run(rawURL string) {
	defer e.wg.Done()

	origin := Origin(rawURL)
	if origin == "" {
		return
	}
	v, _, _ := e.group.Do(origin, func() (interface{}, error) {
		icon, ok := e.res.Resolve(e.ctx, rawURL)
		if !ok {
			return "", nil
		}
		return icon, nil
	})
	icon, _ := v.(string)
	if icon == "" {
		return
	}

	e.mu.Lock()
	alive := e.alive
	e.mu.Unlock()
	if !alive {
		e.log.Debug("dropping late icon", logger.String("url", rawURL))
		return
	}

	if err := e.store.Transform(SetIcon(rawURL, icon)); err != nil {
		e.log.Debug("icon write-back refused", logger.String("url", rawURL), logger.Error(err))
		return
	}
	e.resolved.Add(1)
	e.log.Debug("icon resolved", logger.String("url", rawURL), logger.String("icon", icon))
}

// Resolved counts the icons written back so far.
func (e *Enricher) Resolved() int64 { return e.resolved.Load() }

// Wait blocks until in-flight resolutions finish.
func (e *Enricher) Wait() { e.wg.Wait() }

// Close stops accepting work, abandons pending fetches and waits for them.
func (e *Enricher) Close() {
	e.mu.Lock()
	e.alive = false
	e.mu.Unlock()
	e.cancel()
	e.wg.Wait()
}

// SetIcon returns a transform storing icon on every link and dock item whose
// URL is rawURL. Records are matched by URL, not index, since the document may
// have been reordered while the fetch ran. It is a no-op when nothing matches.
func SetIcon(rawURL, icon string) func(*nav.Document) *nav.Document {
	return func(doc *nav.Document) *nav.Document {
		changed := false
		for ci := range doc.Categories {
			links := doc.Categories[ci].Links
			for li := range links {
				if links[li].URL == rawURL && links[li].Icon != icon {
					links[li].Icon = icon
					changed = true
				}
			}
		}
		for _, items := range [][]nav.DockItem{doc.Dock.Items, doc.Dock.Utilities} {
			for i := range items {
				it := &items[i]
				if it.URL == rawURL && !it.IsCommand() && it.Icon != icon {
					it.Icon = icon
					changed = true
				}
			}
		}
		if !changed {
			return nil
		}
		return doc
	}
}
