// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"fmt"
)

// Registry is the immutable set of named lookups built once at startup.
type Registry struct {
	byName map[string]Lookup
	order  []Lookup
}

// NewRegistry indexes lookups by name. Names must be unique.
func NewRegistry(lookups ...Lookup) (*Registry, error) {
	r := &Registry{byName: make(map[string]Lookup, len(lookups))}
	for _, l := range lookups {
		if l == nil {
			continue
		}
		if _, dup := r.byName[l.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate resolver name %q", ErrInvalidConfig, l.Name())
		}
		r.byName[l.Name()] = l
		r.order = append(r.order, l)
	}
	return r, nil
}

// Get returns the lookup registered under name.
func (r *Registry) Get(name string) (Lookup, bool) {
	if r == nil {
		return nil, false
	}
	l, ok := r.byName[name]
	return l, ok
}

// ForType returns the first registered lookup serving t.
func (r *Registry) ForType(t DeliveryType) (Lookup, bool) {
	if r == nil {
		return nil, false
	}
	for _, l := range r.order {
		if l.Type() == t {
			return l, true
		}
	}
	return nil, false
}

// Names lists the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	for i, l := range r.order {
		out[i] = l.Name()
	}
	return out
}

// Len returns the number of registered lookups.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
