package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// MemoryIndex holds the document currently served.
// It is the primary read path; Redis only mirrors it.
type MemoryIndex struct {
	mu         sync.RWMutex
	doc        *nav.Document
	guest      *nav.Document
	source     string
	version    uint64
	lastReload time.Time
	hits       map[string]int64 // link URL -> jump count
}

// NewMemoryIndex creates an index serving the built-in default document
func NewMemoryIndex() *MemoryIndex {
	idx := &MemoryIndex{hits: make(map[string]int64)}
	idx.set(nav.Default(), "builtin")
	return idx
}

// Update replaces the served document
func (idx *MemoryIndex) Update(doc *nav.Document, source string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.set(doc.Clone(), source)
	idx.lastReload = time.Now()
}

func (idx *MemoryIndex) set(doc *nav.Document, source string) {
	idx.doc = doc
	idx.guest = nav.GuestView(doc)
	idx.source = source
	idx.version++
}

// Document returns a copy of the full document
func (idx *MemoryIndex) Document() *nav.Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.doc.Clone()
}

// Guest returns a copy of the guest projection
func (idx *MemoryIndex) Guest() *nav.Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.guest.Clone()
}

// Search returns the best link for query
func (idx *MemoryIndex) Search(query string) (nav.NavLink, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return nav.BestLink(query, idx.doc)
}

// RecordHit increments the jump counter for a link URL
func (idx *MemoryIndex) RecordHit(url string) int64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.hits[url]++
	return idx.hits[url]
}

// Hits returns a copy of the jump counters
func (idx *MemoryIndex) Hits() map[string]int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]int64, len(idx.hits))
	for k, v := range idx.hits {
		out[k] = v
	}
	return out
}

// Stats summarises the served document
type Stats struct {
	Source     string    `json:"source"`
	Version    uint64    `json:"version"`
	Categories int       `json:"categories"`
	Links      int       `json:"links"`
	DockItems  int       `json:"dock_items"`
	LastReload time.Time `json:"last_reload"`
}

func (idx *MemoryIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	links := 0
	for _, c := range idx.doc.Categories {
		links += len(c.Links)
	}
	return Stats{
		Source:     idx.source,
		Version:    idx.version,
		Categories: len(idx.doc.Categories),
		Links:      links,
		DockItems:  len(idx.doc.Dock.Items) + len(idx.doc.Dock.Utilities),
		LastReload: idx.lastReload,
	}
}

// GetLastReload returns the timestamp of the last Update
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
