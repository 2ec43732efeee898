package async

import (
	"context"
	"sync"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// settle stores the outcome once. It reports whether this call won.
func (f *Future[U]) settle(res U, err error) bool {
	won := false
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
		won = true
	})
	return won
}

// Await waits for the future to settle and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the future to settle or for ctx to end, whichever
// happens first.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the future has settled.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks whether the future has settled without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Resolve settles a future created by NewPromise.
// It returns ErrAlreadySettled when the future was settled before.
type Resolve[U any] func(res U, err error) error

// NewPromise returns an unsettled future and the function that settles it.
func NewPromise[U any]() (*Future[U], Resolve[U]) {
	f := newFuture[U]()
	return f, func(res U, err error) error {
		if !f.settle(res, err) {
			return ErrAlreadySettled
		}
		return nil
	}
}

// Resolved returns a future that is already settled with res and err.
func Resolved[U any](res U, err error) *Future[U] {
	f := newFuture[U]()
	f.settle(res, err)
	return f
}

// Go runs fn in its own goroutine and returns a future for its outcome.
// A context canceled before the goroutine starts short-circuits fn.
func Go[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents running work for an already abandoned caller
		if err := ctx.Err(); err != nil {
			var zero U
			f.settle(zero, err)
			return
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// All waits for every future and returns their results in argument order,
// independent of completion order. The first error by position is returned
// after all futures have settled, or ctx.Err() if the context ends first.
func All[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error

	for i, future := range futures {
		res, err := future.AwaitContext(ctx)
		if err != nil && ctx.Err() != nil {
			return results, ctx.Err()
		}
		results[i] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}
