package dragdrop

import (
	"sync"

	"github.com/google/uuid"
)

// Registry keeps payloads of drags in progress, keyed by a session id, for
// hosts that have no data channel on the drag itself.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]Payload
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Payload)}
}

// Start records p and returns its session id.
func (r *Registry) Start(p Payload) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = p
	r.mu.Unlock()
	return id
}

func (r *Registry) Get(id string) (Payload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.sessions[id]
	return p, ok
}

// End forgets the session. Called on drop and on dragend.
func (r *Registry) End(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
