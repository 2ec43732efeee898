package formtest

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrymomot/activeform/form"
)

// Remote is a scripted form.RemoteValidator that records every call.
type Remote struct {
	mu     sync.Mutex
	calls  []form.Values
	result map[string][]string
	err    error
	hook   func(form.Values)
}

// NewRemote returns a validator answering with result.
func NewRemote(result map[string][]string) *Remote {
	return &Remote{result: result}
}

// Fail makes subsequent calls return err.
func (r *Remote) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Respond replaces the scripted result.
func (r *Remote) Respond(result map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = result
}

// OnCall runs fn with the values of every call before it returns.
func (r *Remote) OnCall(fn func(form.Values)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = fn
}

// Validate implements form.RemoteValidator.
func (r *Remote) Validate(_ context.Context, values form.Values) (map[string][]string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, maps.Clone(values))
	result, err, hook := maps.Clone(r.result), r.err, r.hook
	r.mu.Unlock()

	if hook != nil {
		hook(values)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Calls returns the values sent with each call.
func (r *Remote) Calls() []form.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]form.Values, len(r.calls))
	copy(out, r.calls)
	return out
}
