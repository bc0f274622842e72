// Package di provides a hierarchical, lazy dependency container.
//
// Callers register named values (constants) or factories (providers) on a
// Container and read them back by name. A provider runs on first access and
// its result is memoized until explicitly reloaded or redefined.
//
// Containers chain: Extend returns a child that falls back to its parent's
// bindings and may shadow any of them locally without touching the parent.
//
// Design goals:
//   - Explicit: string keys, plain factory functions, no reflection-based wiring.
//   - Lazy: nothing runs until a key is read; Has/HasOwn never run factories.
//   - Safe: duplicate keys, missing redefinitions and dependency cycles are
//     reported as typed errors you can assert with errors.As.
//
// # Registration
//
//	c := di.New()
//	_, _ = c.Constant("dsn", "postgres://localhost")
//	_ = c.Provider("db", func(d *di.Deps) (any, error) {
//	    dsn, err := di.TryGetAs[string](d, "dsn")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return sql.Open("postgres", dsn)
//	})
//
// # Scoped invocation
//
// Invoke runs a function in an ephemeral child scope. Whatever the function
// registers through its Deps disappears when Invoke returns:
//
//	v, err := c.Invoke(func(d *di.Deps) (any, error) {
//	    _, _ = d.Constant("request_id", "abc")
//	    return d.Get("db")
//	})
//
// # Cycles
//
// Reading a key that is already being resolved in the same lookup fails with
// CyclicDependencyError ("foo -> bar -> foo"). Only the synchronous call graph
// is checked: a factory may return a value that reads the other key later.
//
// # Deferred work
//
// EagerProvider and InvokeAsync go through the container's Scheduler. The
// default Queue runs nothing until Drain is called, which marks the end of a
// registration burst.
package di
