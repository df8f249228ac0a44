package dispatcher

import (
	"sort"
	"sync"
)

// Handler runs an action against an editor.
type Handler func(ed Editor) (Result, error)

type entry struct {
	handler Handler
	gate    Gate
}

// Registry maps action names to handlers and the gates enabling them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]entry)}
}

// Register adds or replaces the handler for name. A nil gate means the
// action is always enabled.
func (r *Registry) Register(name string, h Handler, gate Gate) {
	if gate == nil {
		gate = Always
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = entry{handler: h, gate: gate}
}

// Unregister removes the handler for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

func (r *Registry) get(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handlers[name]
	return e, ok
}

// Has reports whether a handler is registered for name.
func (r *Registry) Has(name string) bool {
	_, ok := r.get(name)
	return ok
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
