package shell

import (
	"errors"
	"sync"
	"time"
)

// ErrUITimeout is returned when a closure marshaled onto the UI thread
// does not complete in time.
var ErrUITimeout = errors.New("ui thread did not respond")

// UIQueue hands closures from background goroutines to the UI thread.
// Closures posted before Open are buffered and delivered in order.
type UIQueue struct {
	mu      sync.Mutex
	run     func(func())
	pending []func()
}

// Open starts delivery through run, which schedules a closure on the UI
// thread. Buffered closures go first.
func (q *UIQueue) Open(run func(func())) {
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		if len(batch) == 0 {
			q.run = run
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
		for _, fn := range batch {
			run(fn)
		}
	}
}

// Post schedules fn on the UI thread.
func (q *UIQueue) Post(fn func()) {
	q.mu.Lock()
	run := q.run
	if run == nil {
		q.pending = append(q.pending, fn)
	}
	q.mu.Unlock()
	if run != nil {
		run(fn)
	}
}

// Call runs fn on the UI thread and waits up to timeout for its result.
func (q *UIQueue) Call(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	q.Post(func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return ErrUITimeout
	}
}

// SerialRunner executes closures one at a time, in order, on a goroutine
// of its own. It serves toolkits whose UI calls are safe from any
// goroutine but must not run inside the caller's callback.
type SerialRunner struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

func NewSerialRunner() *SerialRunner {
	r := &SerialRunner{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *SerialRunner) loop() {
	for {
		select {
		case fn := <-r.ch:
			fn()
		case <-r.done:
			return
		}
	}
}

// Run queues fn. After Stop it is dropped.
func (r *SerialRunner) Run(fn func()) {
	select {
	case r.ch <- fn:
	case <-r.done:
	}
}

func (r *SerialRunner) Stop() {
	r.once.Do(func() { close(r.done) })
}
