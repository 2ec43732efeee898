package statemachine

import "fmt"

// Option configures a machine during construction.
type Option[S, E comparable] func(*Machine[S, E])

// TransitionOption configures a single transition.
type TransitionOption[S, E comparable] func(*Transition[S, E])

// New creates a machine in the initial state.
func New[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MustNew is New for call sites that want a panic on a nil option.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	for i, opt := range opts {
		if opt == nil {
			panic(fmt.Sprintf("statemachine: option %d is nil", i))
		}
	}
	return New(initial, opts...)
}

// WithTransition declares a transition from -> to on event.
func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) {
		t := Transition[S, E]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		m.add(t)
	}
}

// WithGuard adds guards to a transition. Nil guards are skipped.
func WithGuard[S, E comparable](guards ...Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		for _, g := range guards {
			if g != nil {
				t.Guards = append(t.Guards, g)
			}
		}
	}
}

// WithAction adds actions to a transition. Nil actions are skipped.
func WithAction[S, E comparable](actions ...Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		for _, a := range actions {
			if a != nil {
				t.Actions = append(t.Actions, a)
			}
		}
	}
}
