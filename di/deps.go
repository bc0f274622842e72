package di

import (
	"sort"
	"sync/atomic"
)

// Deps is the dependency surface of a container: every key visible from it,
// plus the capabilities a factory or invoked function needs to call back into
// the container (Get, Invoke, Constant, Provider).
//
// A Deps handed to a factory carries the resolution trail of the lookup that
// triggered it, so reads made through it take part in cycle detection. The
// trail is immutable, so goroutines started by the factory or invoked function
// may read through the same Deps concurrently. Once the factory returns, the
// Deps is detached: a lazy accessor that kept it starts from an empty trail.
type Deps struct {
	scope *Container
	trail atomic.Pointer[trail]
}

func newDeps(scope *Container, t *trail) *Deps {
	d := &Deps{scope: scope}
	d.trail.Store(t)
	return d
}

// current returns the trail of the resolution d belongs to, or nil (the
// empty trail) when d is detached.
func (d *Deps) current() *trail { return d.trail.Load() }

func (d *Deps) detach() { d.trail.Store(nil) }

// Scope returns the container this surface belongs to.
func (d *Deps) Scope() *Container { return d.scope }

// Get resolves key. A key bound nowhere in the chain yields (nil, nil).
func (d *Deps) Get(key string) (any, error) {
	v, _, err := d.scope.resolve(key, d.current())
	return v, err
}

// Lookup resolves key, reporting whether it is bound anywhere in the chain.
func (d *Deps) Lookup(key string) (val any, ok bool, err error) {
	return d.scope.resolve(key, d.current())
}

// Has reports whether key is bound in the chain without resolving it.
func (d *Deps) Has(key string) bool { return d.scope.Has(key) }

// HasOwn reports whether key is bound on this scope without resolving it.
func (d *Deps) HasOwn(key string) bool { return d.scope.HasOwn(key) }

// Keys returns every key visible from this surface, sorted: the union of the
// keys bound on the scope and all of its ancestors.
func (d *Deps) Keys() []string {
	seen := make(map[string]struct{})
	for s := d.scope; s != nil; s = s.parent {
		for _, k := range s.Keys() {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Invoke runs fn in a fresh child of this scope. See Container.Invoke.
func (d *Deps) Invoke(fn InvokeFunc) (any, error) {
	return d.scope.invoke(fn, d.current())
}

// Constant binds key to value on this scope and returns value.
func (d *Deps) Constant(key string, value any) (any, error) {
	return d.scope.Constant(key, value)
}

// Provider binds key to factory on this scope.
func (d *Deps) Provider(key string, factory Factory) error {
	return d.scope.Provider(key, factory)
}

// trail is one in-flight resolution, key on scope, linked to the resolution
// that triggered it. A nil *trail is the empty trail. Nodes are never
// mutated: entering a resolution links a new node, leaving it drops the node.
type trail struct {
	parent *trail
	scope  *Container
	key    string
}

// enter returns the trail extended by key on scope.
func (t *trail) enter(scope *Container, key string) *trail {
	return &trail{parent: t, scope: scope, key: key}
}

// cycle reports whether key on scope is already in flight. The path runs
// from the outermost occurrence of key back to key.
func (t *trail) cycle(scope *Container, key string) ([]string, bool) {
	var first *trail
	depth, hit := 0, 0
	for n := t; n != nil; n = n.parent {
		depth++
		if n.scope == scope && n.key == key {
			first, hit = n, depth
		}
	}
	if first == nil {
		return nil, false
	}

	path := make([]string, hit+1)
	path[hit] = key
	for i, n := hit-1, t; i >= 0; i, n = i-1, n.parent {
		path[i] = n.key
	}
	return path, true
}
