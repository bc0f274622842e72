package di

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is a read-only set of named values that Container.Import binds as
// constants.
//
// Expected usage:
//
//	val, ok, err := reg.Resolve("some.key")
type Registry interface {
	Keys() []string
	Resolve(key string) (val any, ok bool, err error)
}

// ErrRegistryPanic is returned if a registry implementation panics internally.
var ErrRegistryPanic = errors.New("registry: panic during Resolve")

// MapRegistry is a simple in-memory registry.
type MapRegistry struct {
	items map[string]any
}

func NewMapRegistry() *MapRegistry {
	return &MapRegistry{items: map[string]any{}}
}

// Provide stores a value under a key and returns the registry for chaining.
// A later Provide for the same key replaces the earlier value.
func (r *MapRegistry) Provide(key string, val any) *MapRegistry {
	r.items[key] = val
	return r
}

// Merge copies every entry of other into r, overwriting on conflict, and
// returns r for chaining.
func (r *MapRegistry) Merge(other *MapRegistry) *MapRegistry {
	if other == nil {
		return r
	}
	for k, v := range other.items {
		r.items[k] = v
	}
	return r
}

// Keys returns the stored keys, sorted.
func (r *MapRegistry) Keys() []string {
	out := make([]string, 0, len(r.items))
	for k := range r.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of stored keys.
func (r *MapRegistry) Len() int { return len(r.items) }

// Resolve implements Registry, converting panics into ErrRegistryPanic.
func (r *MapRegistry) Resolve(key string) (val any, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			val = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrRegistryPanic, rec)
		}
	}()

	v, ok := r.items[key]
	return v, ok, nil
}

// Get returns the value if present (no panic).
func (r *MapRegistry) Get(key string) (any, bool) {
	v, ok := r.items[key]
	return v, ok
}

// MustGet returns the value or panics with a helpful message.
// Useful in examples/tests where missing registry keys should fail fast.
func (r *MapRegistry) MustGet(key string) any {
	v, ok := r.items[key]
	if !ok {
		panic(fmt.Errorf("di: registry missing key %q", key))
	}
	return v
}
