package ingest

import "sync"

// BreakerStatus is a snapshot of one breaker's state, for the optional
// voluntary registry callers can poll (e.g. a health endpoint).
type BreakerStatus struct {
	Name  string
	State string
}

// Registry is a process-wide map of source name to its CircuitBreaker.
// Registration takes a write lock; reads are concurrent.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// Register adds a breaker under name, replacing any previous registration.
func (r *Registry) Register(name string, cb *CircuitBreaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers[name] = cb
}

// States returns a snapshot of every registered breaker's current state.
func (r *Registry) States() []BreakerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BreakerStatus, 0, len(r.breakers))
	for name, cb := range r.breakers {
		out = append(out, BreakerStatus{Name: name, State: cb.State().String()})
	}
	return out
}
