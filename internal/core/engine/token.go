package engine

import (
	"context"
	"sync"
	"sync/atomic"
)

// CancelToken is a cooperative cancellation handle shared by reference
// across every nested unit of work in a run. Triggering it never aborts
// an in-flight lookup; it only stops new work from starting.
type CancelToken struct {
	cancelled atomic.Bool
	done      chan struct{}

	mu        sync.Mutex
	listeners []func()
}

// NewCancelToken returns an untriggered token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel triggers the token and fires registered listeners once.
func (t *CancelToken) Cancel() {
	if t == nil || !t.cancelled.CompareAndSwap(false, true) {
		return
	}

	if t.done != nil {
		close(t.done)
	}

	t.mu.Lock()
	listeners := t.listeners
	t.listeners = nil
	t.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Cancelled reports whether the token has been triggered.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// Done returns a channel closed when the token triggers. For a nil
// token it returns nil, which blocks forever in a select.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// OnCancel registers a listener invoked when the token triggers. A
// listener registered after triggering runs immediately.
func (t *CancelToken) OnCancel(fn func()) {
	if t == nil || fn == nil {
		return
	}

	t.mu.Lock()
	if !t.cancelled.Load() {
		t.listeners = append(t.listeners, fn)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	fn()
}

// BindContext cancels the token when ctx is done. The returned stop
// function releases the watcher goroutine.
func (t *CancelToken) BindContext(ctx context.Context) (stop func()) {
	if t == nil || ctx == nil {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			t.Cancel()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}
