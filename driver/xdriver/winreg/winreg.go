// Package winreg maps window handles to the objects that receive their
// events.
package winreg

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	ErrNoSuchHandle    = errors.New("no such window handle")
	ErrDuplicateHandle = errors.New("duplicate window handle")
)

// Registry is safe for concurrent use. A handle marked destroyed stays
// present with a zero value until removed.
type Registry[V any] struct {
	mu sync.RWMutex
	m  map[xproto.Window]*entry[V]
}

type entry[V any] struct {
	v         V
	destroyed bool
}

func New[V any]() *Registry[V] {
	return &Registry[V]{m: map[xproto.Window]*entry[V]{}}
}

// Add fails if the handle is already present, even if marked destroyed.
func (r *Registry[V]) Add(h xproto.Window, v V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[h]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateHandle, h)
	}
	r.m[h] = &entry[V]{v: v}
	return nil
}

// Lookup fails if the handle is absent. A destroyed handle returns the zero
// value without error.
func (r *Registry[V]) Lookup(h xproto.Window) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[h]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %d", ErrNoSuchHandle, h)
	}
	return e.v, nil
}

// Get is Lookup for callers that treat absent and destroyed alike.
func (r *Registry[V]) Get(h xproto.Window) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[h]
	if !ok || e.destroyed {
		var zero V
		return zero, false
	}
	return e.v, true
}

// IsDestroyed reports whether the handle is present and marked destroyed.
func (r *Registry[V]) IsDestroyed(h xproto.Window) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[h]
	return ok && e.destroyed
}

func (r *Registry[V]) MarkDestroyed(h xproto.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.m[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchHandle, h)
	}
	var zero V
	e.v = zero
	e.destroyed = true
	return nil
}

// Remove returns true if the registry is empty afterwards.
func (r *Registry[V]) Remove(h xproto.Window) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, h)
	return len(r.m) == 0
}

func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Handles returns the present handles, destroyed ones included.
func (r *Registry[V]) Handles() []xproto.Window {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := make([]xproto.Window, 0, len(r.m))
	for h := range r.m {
		u = append(u, h)
	}
	return u
}
