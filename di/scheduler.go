package di

import "sync"

// Scheduler runs work after the current registration burst.
//
// Defer queues a task. Drain runs queued tasks in the order they were
// deferred, including tasks deferred while draining, until none are left.
type Scheduler interface {
	Defer(task func())
	Drain()
}

// Queue is the default Scheduler: a FIFO drained explicitly by its owner.
//
// A container tree shares one Queue, so eager providers registered anywhere in
// the tree fire on the next Drain of the root.
type Queue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue { return &Queue{} }

// Defer appends task to the queue. Nil tasks are ignored.
func (q *Queue) Defer(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Drain runs queued tasks until the queue is empty.
//
// A Drain that starts while another one is running returns immediately; the
// running Drain picks up whatever was queued. A panicking task stops the drain
// and leaves the remaining tasks queued.
func (q *Queue) Drain() {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// Len reports how many tasks are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
