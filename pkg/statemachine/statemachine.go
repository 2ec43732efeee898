package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Action executes side effects during a transition. Returning an error
// prevents the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Guard decides whether a transition may proceed.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Transition is a state change triggered by an event.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // All must pass
	Actions []Action[S, E] // Executed in order before the state changes
}

// Machine is a mutex-guarded in-memory state machine.
// Transitions are indexed as [from][event][]Transition.
type Machine[S, E comparable] struct {
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	mu          sync.Mutex
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Machine[S, E]) add(t Transition[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	// Several transitions per from/event allow guard-based branching
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Fire applies the first transition whose guards pass for event.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.match(ctx, event, data)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, m.current, t.To, event, data); err != nil {
			return fmt.Errorf("%w: %w", ErrActionFailed, err)
		}
	}

	m.current = t.To
	return nil
}

// CanFire reports whether Fire would find a transition for event.
// Actions are not executed.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.match(ctx, event, data)
	return err == nil
}

// Reset moves the machine back to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) match(ctx context.Context, event E, data any) (*Transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
	}

	// First transition with passing guards wins
	for i := range candidates {
		if m.guardsPass(ctx, candidates[i], event, data) {
			return &candidates[i], nil
		}
	}

	return nil, &RejectedError{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
}

func (m *Machine[S, E]) guardsPass(ctx context.Context, t Transition[S, E], event E, data any) bool {
	for _, guard := range t.Guards {
		if !guard(ctx, m.current, event, data) {
			return false
		}
	}
	return true
}
