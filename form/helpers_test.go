package form_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/rules"
)

func required(message string) form.Rule {
	return form.Rule{Validator: "required", Options: rules.Options{"message": message}}
}

// counting wraps a message-less rule and counts its invocations.
func counting(n *atomic.Int32) form.Rule {
	return form.Rule{Func: func(context.Context, any, rules.Options) (rules.Messages, error) {
		n.Add(1)
		return nil, nil
	}}
}

func newForm(t *testing.T, cfg form.Config, opts ...form.Option) *form.Form {
	t.Helper()
	f, err := form.New(cfg, opts...)
	require.NoError(t, err)
	return f
}

func record(t *testing.T, f *form.Form, attribute string) form.Record {
	t.Helper()
	rec, ok := f.Record(attribute)
	require.True(t, ok, "attribute %q is missing", attribute)
	return rec
}

func waitArmed(t *testing.T, clock interface{ Armed() int }, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return clock.Armed() >= n }, time.Second, time.Millisecond)
}

type scrollCall struct {
	ref    any
	offset int
}

type recordingScroller struct {
	mu    sync.Mutex
	calls []scrollCall
}

func (s *recordingScroller) ScrollTo(_ context.Context, ref any, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scrollCall{ref: ref, offset: offset})
	return nil
}

func (s *recordingScroller) Calls() []scrollCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scrollCall(nil), s.calls...)
}

type recordingObserver struct {
	form.NopObserver
	validations atomic.Int32
	superseded  atomic.Int32
	batches     atomic.Int32
	submitted   atomic.Int32
	blocked     atomic.Int32
}

func (o *recordingObserver) ValidationCompleted(string, int, time.Duration) { o.validations.Add(1) }
func (o *recordingObserver) WaitersSuperseded(n int)                       { o.superseded.Add(int32(n)) }
func (o *recordingObserver) BatchCompleted(time.Duration, error)           { o.batches.Add(1) }

func (o *recordingObserver) SubmitCompleted(submitted bool, _ error) {
	if submitted {
		o.submitted.Add(1)
		return
	}
	o.blocked.Add(1)
}
