package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/activeform/pkg/async"
)

// TestPromiseSettlesOnce checks that only the first resolve call wins.
func TestPromiseSettlesOnce(t *testing.T) {
	t.Parallel()

	future, resolve := async.NewPromise[string]()
	if future.IsComplete() {
		t.Fatal("Expected fresh promise to be pending")
	}

	if err := resolve("first", nil); err != nil {
		t.Fatalf("Unexpected error on first resolve: %v", err)
	}
	if err := resolve("second", nil); !errors.Is(err, async.ErrAlreadySettled) {
		t.Fatalf("Expected ErrAlreadySettled, got %v", err)
	}

	res, err := future.Await()
	if err != nil || res != "first" {
		t.Errorf("Expected 'first', got '%s', error: %v", res, err)
	}
}

// TestPromiseConcurrentResolve checks that racing resolvers settle exactly once.
func TestPromiseConcurrentResolve(t *testing.T) {
	t.Parallel()

	future, resolve := async.NewPromise[int]()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range 50 {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			if resolve(v, nil) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Expected exactly one winning resolve, got %d", wins)
	}
	if !future.IsComplete() {
		t.Error("Expected future to be complete")
	}
}

// TestAwaitContextCancellation checks that the context ends the wait, not the future.
func TestAwaitContextCancellation(t *testing.T) {
	t.Parallel()

	future, resolve := async.NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := future.AwaitContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}

	_ = resolve(7, nil)
	res, err := future.Await()
	if err != nil || res != 7 {
		t.Errorf("Expected 7 after late resolve, got %d, error: %v", res, err)
	}
}

// TestGoErrorPropagation checks that errors returned by fn reach the caller.
func TestGoErrorPropagation(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("rule exploded")
	future := async.Go(context.Background(), 1, func(_ context.Context, _ int) (int, error) {
		return 0, expectedErr
	})

	_, err := future.Await()
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected '%v', got: %v", expectedErr, err)
	}
}

// TestGoPreCanceledContext checks that fn never runs for an abandoned caller.
func TestGoPreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	future := async.Go(ctx, 1, func(_ context.Context, v int) (int, error) {
		called = true
		return v, nil
	})

	_, err := future.Await()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("Expected fn not to run")
	}
}

// TestAllKeepsArgumentOrder checks that results are positional, not by completion time.
func TestAllKeepsArgumentOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	delays := []time.Duration{60 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond}
	futures := make([]*async.Future[int], len(delays))
	for i, d := range delays {
		futures[i] = async.Go(ctx, i, func(_ context.Context, idx int) (int, error) {
			time.Sleep(d)
			return idx, nil
		})
	}

	results, err := async.All(ctx, futures...)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range results {
		if v != i {
			t.Errorf("Expected result %d at position %d, got %d", i, i, v)
		}
	}
}

// TestAllReturnsFirstErrorByPosition checks error selection is positional too.
func TestAllReturnsFirstErrorByPosition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	errA := errors.New("a")
	errB := errors.New("b")

	slow, resolveSlow := async.NewPromise[int]()
	fast := async.Resolved(0, errB)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = resolveSlow(0, errA)
	}()

	_, err := async.All(ctx, slow, fast)
	if !errors.Is(err, errA) {
		t.Errorf("Expected first positional error %v, got %v", errA, err)
	}
}

// TestAllEmpty checks that no futures means no results.
func TestAllEmpty(t *testing.T) {
	t.Parallel()

	results, err := async.All[int](context.Background())
	if err != nil || len(results) != 0 {
		t.Errorf("Expected empty results, got %v, error: %v", results, err)
	}
}
