package scheduler

import (
	"context"
	"sync"
)

// Future holds the eventual value of a scheduled work.
//
// The value is delivered once on C. Done and Poll can be used by any number of
// readers once the future is resolved.
type Future[T any] struct {
	c        chan T
	done     chan struct{}
	value    T
	resolved bool
	cancel   context.CancelFunc
	lock     sync.Mutex
}

func newFuture[T any](cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		c:      make(chan T, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (f *Future[T]) resolve(v T) {
	f.lock.Lock()
	if f.resolved {
		f.lock.Unlock()
		return
	}
	f.value = v
	f.resolved = true
	f.lock.Unlock()

	f.c <- v
	close(f.done)
	f.cancel()
}

// C returns a channel receiving the value once.
func (f *Future[T]) C() <-chan T {
	return f.c
}

// Done is closed when the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) Poll() (value T, isResolved bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.resolved {
		return f.value, true
	}

	var none T
	return none, false
}

// Wait blocks until the future is resolved or ctx is done.
// Ending the wait does not stop the work.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _ := f.Poll()
		return v, nil
	case <-ctx.Done():
		var none T
		return none, ctx.Err()
	}
}

// Stop cancels the context of the work.
func (f *Future[T]) Stop() {
	f.cancel()
}
