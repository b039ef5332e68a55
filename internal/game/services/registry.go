// Package services provides the capability registry used to wire optional
// integrations without ambient singletons: components look collaborators
// up by capability name at construction time and degrade gracefully when
// a capability is absent.
package services

import "sync"

// Capability names registered by the standard wiring.
const (
	// CapAnimator is the optional animation/presentation collaborator.
	CapAnimator = "animator"
	// CapActivityTracker is the optional activity-tracking consumer.
	CapActivityTracker = "activity-tracker"
)

// Registry maps capability names to service implementations.
// All methods are safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]any)}
}

// Register stores svc under name, replacing any existing registration.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (r *Registry) Register(name string, svc any) {
	if name == "" || svc == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps[name] = svc
}

// Unregister removes the registration for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caps, name)
}

// Lookup returns the service registered under name.
//
// Postcondition: Returns (svc, true) if found, or (nil, false) otherwise.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.caps[name]
	return svc, ok
}

// LookupAs returns the service registered under name when it implements T.
// A nil registry reports every capability absent.
//
// Postcondition: Returns the zero T and false when the capability is absent
// or has a different type.
func LookupAs[T any](r *Registry, name string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	svc, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
