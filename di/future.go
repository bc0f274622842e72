package di

import (
	"context"
	"fmt"
	"sync"
)

// Future carries the outcome of work that finishes later.
//
// The container never inspects a Future: a factory or invoked function may
// return one as its value, and it is cached or returned as-is. InvokeAsync is
// the only operation that produces and settles Futures itself.
type Future struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a Future already settled with v.
func Resolved(v any) *Future {
	f := newFuture()
	f.settle(v, nil)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// Go runs fn on a new goroutine and returns a Future for its outcome.
// A panic inside fn rejects the Future with ErrInvokePanic.
func Go(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				f.settle(nil, fmt.Errorf("%w: %v", ErrInvokePanic, rec))
			}
		}()
		f.settle(fn())
	}()
	return f
}

// settle records the outcome. Only the first call has an effect.
func (f *Future) settle(v any, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// follow settles f with the outcome of src once src settles.
func (f *Future) follow(src *Future) {
	select {
	case <-src.done:
		f.settle(src.val, src.err)
	default:
		go func() {
			<-src.done
			f.settle(src.val, src.err)
		}()
	}
}

// Done is closed once the Future settles.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the Future settles or ctx is done.
//
// Cancelling ctx stops the wait only; the underlying work keeps running.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
