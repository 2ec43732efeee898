package form_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/rules"
)

type submitSpy struct {
	calls  atomic.Int32
	values form.Values
	err    error
}

func (s *submitSpy) Submit(_ context.Context, values form.Values) error {
	s.calls.Add(1)
	s.values = values
	return s.err
}

func signupForm(t *testing.T, cfg form.Config, opts ...form.Option) *form.Form {
	t.Helper()
	f := newForm(t, cfg, opts...)
	require.NoError(t, f.Register("name", form.FieldOverrides{}, form.SetRules(required("is required"))))
	require.NoError(t, f.Register("age", form.FieldOverrides{},
		form.SetValue("30"),
		form.SetRules(form.Rule{Validator: "number", Options: rules.Options{"integerOnly": true}})))
	return f
}

func TestForm_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("validation errors block the handler", func(t *testing.T) {
		spy := &submitSpy{}
		obs := &recordingObserver{}
		f := signupForm(t, form.DefaultConfig(), form.WithSubmitHandler(spy.Submit), form.WithObserver(obs))
		require.NoError(t, f.UpdateAttribute(ctx, "name", form.SetValue(""), false))

		result, err := f.Submit(ctx)
		require.NoError(t, err)

		assert.False(t, result.Submitted)
		assert.True(t, result.HasErrors())
		assert.Equal(t, map[string][]string{"name": {"is required"}}, result.Errors)
		assert.Zero(t, spy.calls.Load())

		age := record(t, f, "age")
		assert.NotNil(t, age.Errors)
		assert.Empty(t, age.Errors)
		assert.Equal(t, int32(2), obs.validations.Load())
		assert.Equal(t, int32(1), obs.blocked.Load())
	})

	t.Run("valid model reaches the handler", func(t *testing.T) {
		spy := &submitSpy{}
		obs := &recordingObserver{}
		f := signupForm(t, form.DefaultConfig(), form.WithSubmitHandler(spy.Submit), form.WithObserver(obs))
		require.NoError(t, f.UpdateAttribute(ctx, "name", form.SetValue("Ann"), false))

		var published int
		f.Subscribe(func(context.Context, form.Snapshot) { published++ })

		result, err := f.Submit(ctx)
		require.NoError(t, err)

		assert.True(t, result.Submitted)
		assert.False(t, result.HasErrors())
		assert.Equal(t, int32(1), spy.calls.Load())
		assert.Equal(t, form.Values{"name": "Ann", "age": "30"}, spy.values)
		assert.Equal(t, 1, published)
		assert.Equal(t, int32(1), obs.submitted.Load())
	})

	t.Run("skips validation when disabled", func(t *testing.T) {
		cfg := form.DefaultConfig()
		cfg.ValidateOnSubmit = false
		spy := &submitSpy{}
		var ruleCalls atomic.Int32
		f := newForm(t, cfg, form.WithSubmitHandler(spy.Submit))
		require.NoError(t, f.Register("name", form.FieldOverrides{}, form.SetValue(""), form.SetRules(counting(&ruleCalls))))

		result, err := f.Submit(ctx)
		require.NoError(t, err)

		assert.True(t, result.Submitted)
		assert.Zero(t, ruleCalls.Load())
		assert.Equal(t, int32(1), spy.calls.Load())
		assert.Equal(t, form.Values{"name": ""}, spy.values)
		assert.Nil(t, record(t, f, "name").Errors)
	})

	t.Run("native post does nothing", func(t *testing.T) {
		cfg := form.DefaultConfig()
		cfg.Action = "/signup"
		spy := &submitSpy{}
		f := signupForm(t, cfg, form.WithSubmitHandler(spy.Submit))

		result, err := f.Submit(ctx)
		require.NoError(t, err)

		assert.Equal(t, form.SubmitResult{Native: true}, result)
		assert.Zero(t, spy.calls.Load())
		assert.Nil(t, record(t, f, "name").Errors)
	})

	t.Run("requires a handler", func(t *testing.T) {
		f := signupForm(t, form.DefaultConfig())
		_, err := f.Submit(ctx)
		assert.ErrorIs(t, err, form.ErrNoSubmitHandler)
	})

	t.Run("returns handler errors", func(t *testing.T) {
		cause := errors.New("db down")
		spy := &submitSpy{err: cause}
		f := signupForm(t, form.DefaultConfig(), form.WithSubmitHandler(spy.Submit))
		require.NoError(t, f.UpdateAttribute(ctx, "name", form.SetValue("Ann"), false))

		result, err := f.Submit(ctx)
		assert.ErrorIs(t, err, cause)
		assert.False(t, result.Submitted)
	})

	t.Run("scrolls to the first error on submit", func(t *testing.T) {
		s := &recordingScroller{}
		spy := &submitSpy{}
		f := signupForm(t, form.DefaultConfig(), form.WithSubmitHandler(spy.Submit), form.WithScroller(s))
		f.RegisterFieldRef("name", "#name")
		f.RegisterFieldRef("age", "#age")

		_, err := f.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, []scrollCall{{ref: "#name", offset: 0}}, s.Calls())
	})
}
