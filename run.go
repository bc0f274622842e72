package lazyscope

import "github.com/sghaida/lazyscope/di"

// Run builds a root container, invokes fn in a child scope of it and returns
// fn's results directly.
//
// Deferred work queued while fn ran (eager providers) is drained before Run
// returns.
func Run(fn di.InvokeFunc, opts ...di.Option) (any, error) {
	c := di.New(opts...)
	v, err := c.Invoke(fn)
	c.Drain()
	return v, err
}

// RunAsync builds a root container and schedules fn on it. fn runs on a
// separate goroutine after RunAsync returns; the Future settles with its
// outcome.
func RunAsync(fn di.InvokeFunc, opts ...di.Option) *di.Future {
	c := di.New(opts...)
	f := c.InvokeAsync(fn)
	go c.Drain()
	return f
}
