package di

import "go.uber.org/zap"

// Option configures a root container built by New.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution events.
// A nil logger keeps the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// WithScheduler sets the scheduler used by EagerProvider and InvokeAsync.
// A nil scheduler keeps the default Queue.
func WithScheduler(s Scheduler) Option {
	return func(c *Container) {
		if s != nil {
			c.sched = s
		}
	}
}
