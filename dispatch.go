package cubetwist

import "sync"

// callQueue holds work posted from timer goroutines until the owner of the
// engine drains it on its own thread.
type callQueue struct {
	mu    sync.Mutex
	calls []func()
}

func (q *callQueue) post(f func()) {
	q.mu.Lock()
	q.calls = append(q.calls, f)
	q.mu.Unlock()
}

// drain runs every queued call in post order and returns how many ran.
// Calls posted while draining wait for the next drain.
func (q *callQueue) drain() int {
	q.mu.Lock()
	calls := q.calls
	q.calls = nil
	q.mu.Unlock()

	for _, f := range calls {
		f()
	}
	return len(calls)
}

// inlineClock is implemented by clocks that fire timers on the goroutine
// that advances them. Their callbacks can run without a hop.
type inlineClock interface {
	firesInline()
}

// dispatcherFor picks how watchdog work reaches the owner's thread: the
// configured dispatcher, inline for an inline clock, or a queue.
func dispatcherFor(cfg *config) (func(func()), *callQueue) {
	if cfg.dispatch != nil {
		return cfg.dispatch, nil
	}
	if _, ok := cfg.clock.(inlineClock); ok {
		return func(f func()) { f() }, nil
	}
	q := &callQueue{}
	return q.post, q
}
