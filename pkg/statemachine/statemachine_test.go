package statemachine_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrymomot/activeform/pkg/statemachine"
)

type phase string

type signal string

const (
	idle    phase = "idle"
	pending phase = "pending"
	done    phase = "done"

	trigger signal = "trigger"
	elapse  signal = "elapse"
)

func TestMachine(t *testing.T) {
	t.Parallel()

	t.Run("Basic Transitions", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(idle,
			statemachine.WithTransition[phase, signal](idle, pending, trigger),
			statemachine.WithTransition[phase, signal](pending, pending, trigger),
			statemachine.WithTransition[phase, signal](pending, idle, elapse),
		)
		ctx := context.Background()

		if m.Current() != idle {
			t.Fatalf("Expected initial state %s, got %s", idle, m.Current())
		}
		if !m.CanFire(ctx, trigger, nil) {
			t.Fatal("Expected CanFire(trigger) in idle")
		}
		if m.CanFire(ctx, elapse, nil) {
			t.Fatal("Expected CanFire(elapse) to be false in idle")
		}

		for range 3 {
			if err := m.Fire(ctx, trigger, nil); err != nil {
				t.Fatalf("Failed to fire trigger: %v", err)
			}
		}
		if m.Current() != pending {
			t.Fatalf("Expected %s, got %s", pending, m.Current())
		}

		if err := m.Fire(ctx, elapse, nil); err != nil {
			t.Fatalf("Failed to fire elapse: %v", err)
		}
		if m.Current() != idle {
			t.Fatalf("Expected %s, got %s", idle, m.Current())
		}
	})

	t.Run("Guards", func(t *testing.T) {
		t.Parallel()
		allow := func(_ context.Context, _ phase, _ signal, data any) bool {
			ok, _ := data.(bool)
			return ok
		}
		m := statemachine.New(idle,
			statemachine.WithTransition(idle, done, trigger,
				statemachine.WithGuard[phase, signal](allow),
			),
		)
		ctx := context.Background()

		err := m.Fire(ctx, trigger, false)
		if !statemachine.IsRejected(err) {
			t.Fatalf("Expected RejectedError, got: %v", err)
		}
		if err := m.Fire(ctx, trigger, true); err != nil {
			t.Fatalf("Expected guarded transition to pass: %v", err)
		}
		if m.Current() != done {
			t.Fatalf("Expected %s, got %s", done, m.Current())
		}
	})

	t.Run("Guard Branching", func(t *testing.T) {
		t.Parallel()
		never := func(context.Context, phase, signal, any) bool { return false }
		m := statemachine.New(idle,
			statemachine.WithTransition(idle, done, trigger, statemachine.WithGuard[phase, signal](never)),
			statemachine.WithTransition[phase, signal](idle, pending, trigger),
		)

		if err := m.Fire(context.Background(), trigger, nil); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if m.Current() != pending {
			t.Fatalf("Expected fallback branch %s, got %s", pending, m.Current())
		}
	})

	t.Run("Actions", func(t *testing.T) {
		t.Parallel()
		var seen []string
		record := func(_ context.Context, from, to phase, event signal, _ any) error {
			seen = append(seen, string(from)+">"+string(to)+":"+string(event))
			return nil
		}
		failing := func(context.Context, phase, phase, signal, any) error {
			return errors.New("boom")
		}

		m := statemachine.New(idle,
			statemachine.WithTransition(idle, pending, trigger, statemachine.WithAction(record, record)),
			statemachine.WithTransition(pending, idle, elapse, statemachine.WithAction(failing)),
		)
		ctx := context.Background()

		if err := m.Fire(ctx, trigger, nil); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(seen) != 2 || seen[0] != "idle>pending:trigger" {
			t.Fatalf("Expected two recorded actions, got %v", seen)
		}

		err := m.Fire(ctx, elapse, nil)
		if !errors.Is(err, statemachine.ErrActionFailed) {
			t.Fatalf("Expected ErrActionFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Fatalf("Expected wrapped cause, got %v", err)
		}
		if m.Current() != pending {
			t.Fatalf("Expected state unchanged after failed action, got %s", m.Current())
		}
	})

	t.Run("No Transition", func(t *testing.T) {
		t.Parallel()
		m := statemachine.New[phase, signal](idle)

		err := m.Fire(context.Background(), elapse, nil)
		if !statemachine.IsNoTransition(err) {
			t.Fatalf("Expected NoTransitionError, got %v", err)
		}
		if !strings.Contains(err.Error(), "idle") || !strings.Contains(err.Error(), "elapse") {
			t.Fatalf("Expected state and event in message, got %v", err)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		t.Parallel()
		m := statemachine.New(idle, statemachine.WithTransition[phase, signal](idle, pending, trigger))
		_ = m.Fire(context.Background(), trigger, nil)
		m.Reset()
		if m.Current() != idle {
			t.Fatalf("Expected %s after reset, got %s", idle, m.Current())
		}
	})

	t.Run("Nil Option Panics", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Fatal("Expected panic for nil option")
			}
		}()
		statemachine.MustNew[phase, signal](idle, nil)
	})
}

func TestMachineConcurrentFire(t *testing.T) {
	t.Parallel()

	counter := 0
	count := func(context.Context, phase, phase, signal, any) error {
		counter++
		return nil
	}
	m := statemachine.New(idle,
		statemachine.WithTransition(idle, pending, trigger, statemachine.WithAction(count)),
		statemachine.WithTransition(pending, pending, trigger, statemachine.WithAction(count)),
	)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Fire(context.Background(), trigger, nil)
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("Expected 100 serialized actions, got %d", counter)
	}
}
