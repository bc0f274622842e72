package di

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Factory builds the value for a provider-bound key.
//
// It receives the dependency surface of the container the key is bound on, so
// it can read sibling and inherited keys or register helpers of its own.
type Factory func(d *Deps) (any, error)

// InvokeFunc is a callback run by Invoke inside an ephemeral child scope.
type InvokeFunc func(d *Deps) (any, error)

// binding is a registered factory plus its cache slot.
//
// resolved, not value, decides whether the factory runs again, so nil results
// stay memoized. epoch is bumped on every reload; a result computed under an
// older epoch is not cached.
type binding struct {
	factory  Factory
	resolved bool
	value    any
	epoch    uint64
}

// Container holds named bindings and lazily resolves them.
//
// Lookups that miss locally fall back to the parent. A container never
// mutates its parent. The zero value is not usable; build containers with New
// or Extend.
type Container struct {
	mu       sync.Mutex
	parent   *Container
	bindings map[string]*binding

	sched Scheduler
	log   *zap.Logger
}

// New creates a root container.
func New(opts ...Option) *Container {
	c := &Container{
		bindings: make(map[string]*binding),
		sched:    NewQueue(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Extend returns a child container whose parent is c.
//
// The child shares c's scheduler and logger. Bindings made on the child are
// never visible to c.
func (c *Container) Extend() *Container {
	return &Container{
		parent:   c,
		bindings: make(map[string]*binding),
		sched:    c.sched,
		log:      c.log,
	}
}

// Parent returns the container c was extended from, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Deps returns the dependency surface of c.
func (c *Container) Deps() *Deps {
	return newDeps(c, nil)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Constant binds key to value and returns value.
//
// It fails with DuplicateBindingError if key is already bound on c.
func (c *Container) Constant(key string, value any) (any, error) {
	if err := c.bind(key, constantFactory(value)); err != nil {
		return nil, err
	}
	return value, nil
}

// Provider binds key to factory. The factory runs on first access and its
// result is memoized.
//
// It fails with DuplicateBindingError if key is already bound on c.
func (c *Container) Provider(key string, factory Factory) error {
	if factory == nil {
		return NilFactoryError{Key: key}
	}
	return c.bind(key, factory)
}

// EagerProvider binds key like Provider and defers a forced first access to
// the scheduler, so the factory runs even if nobody reads key.
//
// The access happens on the next Drain, after the current registration burst,
// so constants registered after the eager provider are visible to it. A failed
// or panicking eager resolution is logged and left uncached.
//
// With the default Queue nothing drains on its own: callers that build
// containers with New must call Drain, or the factory runs only when the key
// is first read. Run, RunAsync and lazyc drain for you.
func (c *Container) EagerProvider(key string, factory Factory) error {
	if err := c.Provider(key, factory); err != nil {
		return err
	}
	c.sched.Defer(func() {
		defer func() {
			if rec := recover(); rec != nil {
				c.log.Error("di: eager provider panicked", zap.String("key", key), zap.Any("panic", rec))
			}
		}()
		if _, _, err := c.resolve(key, nil); err != nil {
			c.log.Warn("di: eager provider failed", zap.String("key", key), zap.Error(err))
		}
	})
	return nil
}

func (c *Container) bind(key string, factory Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[key]; exists {
		return DuplicateBindingError{Key: key}
	}
	c.bindings[key] = &binding{factory: factory}
	c.log.Debug("di: bound", zap.String("key", key))
	return nil
}

// RedefineConstant replaces the local binding for key with value and drops
// any cached result.
//
// It fails with UndefinedBindingError if key is not bound on c itself.
func (c *Container) RedefineConstant(key string, value any) error {
	return c.rebind(key, constantFactory(value))
}

// RedefineProvider replaces the local binding for key with factory and drops
// any cached result. The new factory runs once, on the next access.
//
// It fails with UndefinedBindingError if key is not bound on c itself.
func (c *Container) RedefineProvider(key string, factory Factory) error {
	if factory == nil {
		return NilFactoryError{Key: key}
	}
	return c.rebind(key, factory)
}

func (c *Container) rebind(key string, factory Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[key]; !exists {
		return UndefinedBindingError{Key: key}
	}
	// A fresh binding, so a factory still running for the old one cannot
	// store its result.
	c.bindings[key] = &binding{factory: factory}
	c.log.Debug("di: redefined", zap.String("key", key))
	return nil
}

// ReloadProvider drops the cached result for key, keeping its factory. The
// next access runs the factory again. Keys not bound on c are ignored.
func (c *Container) ReloadProvider(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.bindings[key]; ok {
		b.invalidate()
		c.log.Debug("di: reloaded", zap.String("key", key))
	}
}

// ReloadAllProviders drops every cached result on c.
func (c *Container) ReloadAllProviders() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.bindings {
		b.invalidate()
	}
	c.log.Debug("di: reloaded all", zap.Int("bindings", len(c.bindings)))
}

func (b *binding) invalidate() {
	b.resolved = false
	b.value = nil
	b.epoch++
}

// Import binds every entry of reg as a constant, in sorted key order.
// It stops at the first failure, leaving earlier entries bound.
func (c *Container) Import(reg Registry) error {
	for _, key := range reg.Keys() {
		val, ok, err := reg.Resolve(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := c.Constant(key, val); err != nil {
			return err
		}
	}
	return nil
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Get resolves key and returns its value.
//
// A key bound nowhere in the chain is not an error: Get returns (nil, nil).
// Use Lookup or Has to tell a missing key from a nil value.
func (c *Container) Get(key string) (any, error) {
	v, _, err := c.resolve(key, nil)
	return v, err
}

// Lookup resolves key, reporting whether it is bound anywhere in the chain.
func (c *Container) Lookup(key string) (val any, ok bool, err error) {
	return c.resolve(key, nil)
}

// Has reports whether key is bound on c or an ancestor. It never runs a factory.
func (c *Container) Has(key string) bool {
	for s := c; s != nil; s = s.parent {
		if s.HasOwn(key) {
			return true
		}
	}
	return false
}

// HasOwn reports whether key is bound on c itself. It never runs a factory.
func (c *Container) HasOwn(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.bindings[key]
	return ok
}

// Keys returns the keys bound on c itself, sorted.
func (c *Container) Keys() []string {
	c.mu.Lock()
	out := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		out = append(out, k)
	}
	c.mu.Unlock()

	sort.Strings(out)
	return out
}

// Factory returns the factory bound to key on c or its nearest ancestor.
//
// Calling it runs the factory again, outside the cache: the memoized value is
// neither used nor replaced.
func (c *Container) Factory(key string) (Factory, bool) {
	for s := c; s != nil; s = s.parent {
		s.mu.Lock()
		b, ok := s.bindings[key]
		s.mu.Unlock()
		if ok {
			return b.factory, true
		}
	}
	return nil, false
}

// resolve walks the chain for key and resolves it on the container that owns
// the binding, extending t with the frame for cycle detection.
func (c *Container) resolve(key string, t *trail) (any, bool, error) {
	c.mu.Lock()
	b, ok := c.bindings[key]
	if !ok {
		c.mu.Unlock()
		if c.parent == nil {
			return nil, false, nil
		}
		return c.parent.resolve(key, t)
	}
	if b.resolved {
		v := b.value
		c.mu.Unlock()
		return v, true, nil
	}
	epoch := b.epoch
	c.mu.Unlock()

	if path, cyclic := t.cycle(c, key); cyclic {
		c.log.Debug("di: cycle", zap.Strings("path", path))
		return nil, true, CyclicDependencyError{Path: path}
	}
	v, err := c.run(b.factory, t.enter(c, key))
	if err != nil {
		return nil, true, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bindings[key] != b || b.epoch != epoch {
		return v, true, nil
	}
	if b.resolved {
		// Another goroutine stored first; hand out the same value.
		return b.value, true, nil
	}
	b.resolved, b.value = true, v
	c.log.Debug("di: resolved", zap.String("key", key))
	return v, true, nil
}

// run calls factory with c's surface, positioned at t, and detaches the
// surface once the factory returns or panics.
func (c *Container) run(factory Factory, t *trail) (any, error) {
	d := newDeps(c, t)
	defer d.detach()
	return factory(d)
}

// ── Invocation ────────────────────────────────────────────────────────────────

// Invoke runs fn with the surface of a fresh child of c and returns fn's
// results directly.
//
// Anything fn registers lands on the child and is gone once Invoke returns.
// If fn returns a *Future, Invoke returns it without waiting.
func (c *Container) Invoke(fn InvokeFunc) (any, error) {
	return c.invoke(fn, nil)
}

func (c *Container) invoke(fn InvokeFunc, t *trail) (any, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	d := newDeps(c.Extend(), t)
	defer d.detach()
	return fn(d)
}

// InvokeAsync defers Invoke(fn) to the scheduler and returns a Future for its
// outcome.
//
// The Future rejects if fn returns an error, panics, or returns a *Future
// that rejects. When fn returns a *Future, a goroutine waits on it; if that
// Future never settles, neither does the returned one and the goroutine stays
// parked.
func (c *Container) InvokeAsync(fn InvokeFunc) *Future {
	f := newFuture()
	if fn == nil {
		f.settle(nil, ErrNilFunc)
		return f
	}
	c.sched.Defer(func() {
		v, err := c.invokeRecover(fn)
		if err != nil {
			f.settle(nil, err)
			return
		}
		if inner, ok := v.(*Future); ok && inner != nil {
			f.follow(inner)
			return
		}
		f.settle(v, nil)
	})
	return f
}

func (c *Container) invokeRecover(fn InvokeFunc) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrInvokePanic, rec)
		}
	}()
	return c.Invoke(fn)
}

// Drain runs deferred work (eager providers, InvokeAsync calls) on c's
// scheduler.
//
// With the default Queue, a Drain that starts while another Drain is running
// returns at once and leaves the work to the running one. State read right
// after such a call may not reflect tasks that are still queued, for example
// while RunAsync drains in the background.
func (c *Container) Drain() { c.sched.Drain() }

func constantFactory(value any) Factory {
	return func(*Deps) (any, error) { return value, nil }
}
