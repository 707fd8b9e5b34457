package cart

import "sync"

// Registry hands out one Manager per user. Carts live only in memory and are
// empty again after a restart.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Manager
	setup func(userID string, m *Manager)
}

// NewRegistry creates a registry. setup, if non-nil, runs once for every new
// cart before it is handed out, typically to attach listeners.
func NewRegistry(setup func(userID string, m *Manager)) *Registry {
	return &Registry{
		carts: make(map[string]*Manager),
		setup: setup,
	}
}

// ForUser returns the user's cart, creating it on first use.
func (r *Registry) ForUser(userID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.carts[userID]; ok {
		return m
	}
	m := NewManager()
	if r.setup != nil {
		r.setup(userID, m)
	}
	r.carts[userID] = m
	return m
}

// Drop ends the user's cart session: the cart is forgotten and then cleared,
// so its listeners see the remaining items leave. It reports whether a cart
// existed.
func (r *Registry) Drop(userID string) bool {
	r.mu.Lock()
	m, ok := r.carts[userID]
	delete(r.carts, userID)
	r.mu.Unlock()

	if ok {
		m.ClearCart()
	}
	return ok
}

// Len returns the number of open carts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
