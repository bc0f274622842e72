package di

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNilFunc is returned when Invoke or InvokeAsync is called with a nil function.
	ErrNilFunc = errors.New("di: nil invoke function")

	// ErrInvokePanic wraps a panic recovered from a function run through InvokeAsync.
	ErrInvokePanic = errors.New("di: panic during invoke")
)

// DuplicateBindingError is returned by Constant and Provider when the key is
// already bound on the same container.
//
// Shadowing a key bound by an ancestor is not a duplicate.
type DuplicateBindingError struct{ Key string }

// Error implements the error interface.
func (e DuplicateBindingError) Error() string {
	// Example: di: duplicate binding "db"
	return "di: duplicate binding " + strconv.Quote(e.Key)
}

// UndefinedBindingError is returned by RedefineConstant and RedefineProvider
// when the container has no local binding to replace.
type UndefinedBindingError struct{ Key string }

// Error implements the error interface.
func (e UndefinedBindingError) Error() string {
	// Example: di: no binding "db" to redefine
	return "di: no binding " + strconv.Quote(e.Key) + " to redefine"
}

// CyclicDependencyError is returned when a key re-enters its own resolution.
//
// Path lists the keys of the cycle in traversal order and starts and ends
// with the same key.
type CyclicDependencyError struct{ Path []string }

// Error implements the error interface.
func (e CyclicDependencyError) Error() string {
	// Example: di: cyclic dependency foo -> bar -> foo
	return "di: cyclic dependency " + strings.Join(e.Path, " -> ")
}

// NilFactoryError indicates a nil factory registered for a specific key.
type NilFactoryError struct{ Key string }

// Error implements the error interface.
func (e NilFactoryError) Error() string {
	// Example: di: nil factory for key "db"
	return "di: nil factory for key " + strconv.Quote(e.Key)
}

// MissingDependencyError is returned when a dependency key is not bound
// anywhere in the scope chain.
//
// It is used by TryGetAs to distinguish "missing" from "wrong type".
type MissingDependencyError struct{ Key string }

// Error implements the error interface.
func (e MissingDependencyError) Error() string {
	// Example: di: dependency "db" missing
	return "di: dependency " + strconv.Quote(e.Key) + " missing"
}

// WrongTypeDependencyError is returned when a dependency resolves to a value
// of a different type than requested.
type WrongTypeDependencyError struct {
	// Key is the dependency key requested.
	Key string

	// GotType is the dynamic type of the resolved value ("<nil>" for nil).
	GotType string
}

// Error implements the error interface.
func (e WrongTypeDependencyError) Error() string {
	// Example: di: dependency "db" has wrong type (*mypkg.Logger)
	return "di: dependency " + strconv.Quote(e.Key) + " has wrong type (" + e.GotType + ")"
}
