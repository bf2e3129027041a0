package fleet

import (
	"sync"

	"github.com/chaz8081/ledctl/internal/light"
)

// Handle is what the UI layer holds for one fixture: a display name and the
// queue used to push desired settings toward the device.
type Handle struct {
	ID   string
	Name string

	updates chan light.Settings
}

func newHandle(id, name string, queueSize int) *Handle {
	return &Handle{
		ID:      id,
		Name:    name,
		updates: make(chan light.Settings, queueSize),
	}
}

// Send offers a settings snapshot without blocking and reports whether it
// was accepted. When the queue is full the caller owns the drop/retry
// policy; the session only ever sees snapshots that made it in.
func (h *Handle) Send(s light.Settings) bool {
	select {
	case h.updates <- s:
		return true
	default:
		return false
	}
}

// Close ends the fixture's session once the queue drains.
func (h *Handle) Close() { close(h.updates) }

// Registry is the shared list of fixture handles consumed by the UI layer.
// The lock is never held across a blocking call.
type Registry struct {
	mu      sync.Mutex
	handles []*Handle
}

func NewRegistry() *Registry { return &Registry{} }

// Add appends a handle to the registry.
func (r *Registry) Add(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = append(r.handles, h)
}

// Handles returns a snapshot of the current handle list.
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, len(r.handles))
	copy(out, r.handles)
	return out
}

// Len reports how many fixtures are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
