package dragdrop

import "sync"

// Highlight tracks drag-over state of a drop target. Nested targets fire
// overlapping enter/leave events, so it counts instead of toggling.
type Highlight struct {
	mu    sync.Mutex
	depth int
}

func (h *Highlight) Enter() {
	h.mu.Lock()
	h.depth++
	h.mu.Unlock()
}

func (h *Highlight) Leave() {
	h.mu.Lock()
	if h.depth > 0 {
		h.depth--
	}
	h.mu.Unlock()
}

// Reset clears the state on drop or dragend.
func (h *Highlight) Reset() {
	h.mu.Lock()
	h.depth = 0
	h.mu.Unlock()
}

func (h *Highlight) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.depth > 0
}
