// Package statemachine provides a small, generic finite-state machine.
//
// States and events are any comparable types chosen by the caller, usually
// string constants. Transitions are declared up front with functional options
// and may carry guards (veto a transition) and actions (side effects run
// before the state changes; an error aborts the transition).
//
// # Usage
//
//	type phase string
//	type signal string
//
//	m := statemachine.MustNew[phase, signal]("idle",
//	    statemachine.WithTransition[phase, signal]("idle", "pending", "trigger",
//	        statemachine.WithAction(arm),
//	    ),
//	    statemachine.WithTransition[phase, signal]("pending", "pending", "trigger",
//	        statemachine.WithAction(supersede, arm),
//	    ),
//	)
//	err := m.Fire(ctx, "trigger", nil)
//
// # Concurrency
//
// Fire serializes transitions with a mutex and runs guards and actions while
// holding it, so actions may mutate state owned by the caller without extra
// locking but must never call back into the same machine.
//
// # Error Handling
//
// Fire returns *NoTransitionError when the current state has no transition
// for the event and *RejectedError when every candidate guard vetoed it. Use
// IsNoTransition and IsRejected to tell them apart.
package statemachine
