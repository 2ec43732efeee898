package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/schema"
)

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(logger.Discard(), "admin")

	errs, err := a.validate(ctx, form.Values{"username": " Admin ", "email": "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"username": {`"admin" is already taken`}}, errs)

	require.NoError(t, a.create(ctx, form.Values{"username": "ann", "email": "ann@example.com"}))
	errs, err = a.validate(ctx, form.Values{"username": "ann", "email": "ANN@example.com"})
	require.NoError(t, err)
	assert.Len(t, errs, 2)

	assert.Error(t, a.create(ctx, form.Values{"username": "ann", "email": "other@example.com"}))
}

func TestEmbeddedSchema(t *testing.T) {
	def, err := loadSchema("")
	require.NoError(t, err)

	a := newAccounts(logger.Discard())
	f, fields, err := def.Build(field.Builtins(), form.WithRemoteValidator(a.validate))
	require.NoError(t, err)
	assert.Equal(t, "signup", f.ID())
	assert.Len(t, fields, 5)
	assert.True(t, f.Config().EnableAjaxValidation)

	_, err = schema.Parse(bytes.NewReader(signupSchema))
	assert.NoError(t, err)
}
