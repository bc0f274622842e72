package di

import "reflect"

// Getter is anything keys can be resolved from: a *Container or a *Deps.
type Getter interface {
	Lookup(key string) (val any, ok bool, err error)
}

// Invoker is anything that can run an InvokeFunc in a child scope: a
// *Container or a *Deps.
type Invoker interface {
	Invoke(fn InvokeFunc) (any, error)
}

// GetAs resolves key and returns it typed as T.
//
// ok is false if the key is missing, fails to resolve, or is not a T.
func GetAs[T any](g Getter, key string) (T, bool) {
	var zero T
	raw, ok, err := g.Lookup(key)
	if err != nil || !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// TryGetAs resolves key and returns it typed as T.
//
// It returns:
//   - the resolution error, unchanged, if the factory fails
//   - MissingDependencyError if the key is bound nowhere in the chain
//   - WrongTypeDependencyError if the value is not a T
func TryGetAs[T any](g Getter, key string) (T, error) {
	var zero T
	raw, ok, err := g.Lookup(key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, MissingDependencyError{Key: key}
	}
	v, ok := raw.(T)
	if !ok {
		got := "<nil>"
		if raw != nil {
			got = reflect.TypeOf(raw).String()
		}
		return zero, WrongTypeDependencyError{Key: key, GotType: got}
	}
	return v, nil
}

// MustGetAs is like TryGetAs but panics on failure.
func MustGetAs[T any](g Getter, key string) T {
	v, err := TryGetAs[T](g, key)
	if err != nil {
		panic(err)
	}
	return v
}

// InvokeAs runs fn through inv.Invoke and returns its result typed as R.
func InvokeAs[R any](inv Invoker, fn func(d *Deps) (R, error)) (R, error) {
	var zero R
	if fn == nil {
		return zero, ErrNilFunc
	}
	raw, err := inv.Invoke(func(d *Deps) (any, error) { return fn(d) })
	if err != nil {
		return zero, err
	}
	v, _ := raw.(R)
	return v, nil
}
