package frame

import (
	"sync"
	"time"
)

// Handle identifies a requested frame callback.
type Handle uint64

type request struct {
	handle    Handle
	fn        func(now time.Time)
	cancelled bool
}

// Queue schedules work onto the render goroutine, once per display refresh.
// Request and Cancel are meant for the render goroutine; Post may be called
// from any goroutine.
type Queue struct {
	mu      sync.Mutex
	posted  []func()
	pending []*request
	running []*request // batch of the flush in progress
	last    Handle
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Request schedules fn to run on the next Flush and returns a handle that
// can cancel it.
func (q *Queue) Request(fn func(now time.Time)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last++
	q.pending = append(q.pending, &request{handle: q.last, fn: fn})
	return q.last
}

// Cancel drops a pending request. It reports whether the request was still pending.
func (q *Queue) Cancel(h Handle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.handle == h {
			r.cancelled = true
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	for _, r := range q.running {
		if r.handle == h && !r.cancelled {
			r.cancelled = true
			return true
		}
	}
	return false
}

// Post queues a task to run at the start of the next Flush.
func (q *Queue) Post(task func()) {
	q.mu.Lock()
	q.posted = append(q.posted, task)
	q.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting for the next Flush.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs posted tasks, then the frame callbacks that were pending when
// the flush began. Callbacks requested while flushing wait for the next
// Flush. It returns the number of frame callbacks run.
func (q *Queue) Flush(now time.Time) int {
	q.mu.Lock()
	posted := q.posted
	q.posted = nil
	q.mu.Unlock()

	for _, task := range posted {
		task()
	}

	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.running = batch
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.running = nil
		q.mu.Unlock()
	}()

	ran := 0
	for _, r := range batch {
		// A callback earlier in the batch may have cancelled this one
		q.mu.Lock()
		cancelled := r.cancelled
		r.cancelled = true // consumed
		q.mu.Unlock()
		if cancelled {
			continue
		}
		r.fn(now)
		ran++
	}
	return ran
}
