package execution

import (
	"fmt"
	"sync"
	"time"
)

// Future is the awaitable the runtime accepts in place of an effect
// descriptor: a one-shot completion with callbacks and an optional
// cancel hook. Completion may happen from any goroutine; delivery into
// the runtime is serialised by the scheduler.
type Future struct {
	mu          sync.Mutex
	done        bool
	doneCh      chan struct{}
	result      interface{}
	err         error
	subscribers []func(interface{}, error)
	cancelFn    func()
	cancelled   bool
}

// NewFuture creates an incomplete future.
func NewFuture() *Future {
	return &Future{doneCh: make(chan struct{})}
}

// Go runs fn on its own goroutine and completes the returned future with
// its outcome.
func Go(fn func() (interface{}, error)) *Future {
	f := NewFuture()
	go func() {
		result, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(result)
	}()
	return f
}

// Resolve completes the future with result. Later completions are
// no-ops.
func (f *Future) Resolve(result interface{}) { f.complete(result, nil) }

// Reject completes the future with err. Later completions are no-ops.
func (f *Future) Reject(err error) { f.complete(nil, err) }

func (f *Future) complete(result interface{}, err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.result = result
	f.err = err
	subscribers := f.subscribers
	f.subscribers = nil
	close(f.doneCh)
	f.mu.Unlock()
	for _, subscriber := range subscribers {
		subscriber(result, err)
	}
}

// Wait blocks until the future completes and returns its outcome, or
// fails after timeout.
func (f *Future) Wait(timeout time.Duration) (interface{}, error) {
	select {
	case <-f.doneCh:
		result, err, _ := f.poll()
		return result, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for completion")
	}
}

// OnCancel installs the cancel hook invoked when a pending future is
// cancelled. The runtime tolerates futures without one.
func (f *Future) OnCancel(fn func()) {
	f.mu.Lock()
	f.cancelFn = fn
	f.mu.Unlock()
}

// Cancel invokes the cancel hook once, unless the future has completed.
func (f *Future) Cancel() {
	f.mu.Lock()
	if f.done || f.cancelled {
		f.mu.Unlock()
		return
	}
	f.cancelled = true
	cancelFn := f.cancelFn
	f.mu.Unlock()
	if cancelFn != nil {
		cancelFn()
	}
}

// subscribe registers fn to run on completion, from the completer's
// goroutine. It reports false when the future has already completed; the
// caller should poll instead. fn is never invoked on the subscriber's
// stack.
func (f *Future) subscribe(fn func(interface{}, error)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return false
	}
	f.subscribers = append(f.subscribers, fn)
	return true
}

// poll returns the completion outcome, if any.
func (f *Future) poll() (interface{}, error, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err, f.done
}

// NodeCallback is the node-style completion handed to cps functions:
// invoke Done exactly once; SetCancel optionally installs a hook the
// runtime fires when the pending effect is cancelled.
type NodeCallback struct {
	future *Future
}

// NewNodeCallback creates a cps completion callback.
func NewNodeCallback() *NodeCallback {
	return &NodeCallback{future: NewFuture()}
}

// Done completes the cps invocation with (result, err).
func (c *NodeCallback) Done(result interface{}, err error) {
	if err != nil {
		c.future.Reject(err)
		return
	}
	c.future.Resolve(result)
}

// SetCancel installs the cancellation hook.
func (c *NodeCallback) SetCancel(fn func()) {
	c.future.OnCancel(fn)
}
