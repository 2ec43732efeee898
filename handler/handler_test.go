package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/handler"
	"github.com/dmitrymomot/activeform/pkg/schema"
)

const signupYAML = `
id: signup
title: Sign up
submit: Create account
fields:
  - attribute: name
    type: text
    label: Name
    rules:
      - validator: required
  - attribute: email
    type: text
    label: Email
    rules:
      - validator: required
      - validator: email
`

var formIDPattern = regexp.MustCompile(`<form id="af-([0-9a-f-]{36})"`)

type submissions struct {
	mu     sync.Mutex
	values []form.Values
	err    error
}

func (s *submissions) submit(_ context.Context, values form.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, values)
	return s.err
}

func (s *submissions) calls() []form.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]form.Values(nil), s.values...)
}

func newHandler(t *testing.T, sub *submissions) *handler.Handler {
	t.Helper()
	def, err := schema.Parse(strings.NewReader(signupYAML))
	require.NoError(t, err)
	reg := field.Builtins()
	return handler.New(
		handler.FromDefinition(def, reg, form.WithSubmitHandler(sub.submit)),
		handler.WithFieldRegistry(reg),
	)
}

// open renders a new form page and returns the form id.
func open(t *testing.T, h http.Handler) (string, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	m := formIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page has no form")
	return m[1], rec.Body.String()
}

func post(h http.Handler, path, body string, datastar bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if datastar {
		req.Header.Set(handler.DataStarRequestHeader, "true")
		req.Header.Set("Accept", handler.DataStarAcceptHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Show(t *testing.T) {
	h := newHandler(t, &submissions{})
	id, body := open(t, h)

	assert.Contains(t, body, "<title>Sign up</title>")
	assert.Contains(t, body, handler.DefaultScriptURL)
	assert.Contains(t, body, `id="af-`+id+`-name"`)
	assert.Contains(t, body, `id="af-`+id+`-email-field"`)
	assert.Contains(t, body, "/forms/"+id+"/submit")
	assert.Contains(t, body, "Create account")
	assert.Equal(t, 1, h.Store().Len())

	other, _ := open(t, h)
	assert.NotEqual(t, id, other, "every visit gets its own form")
	assert.Equal(t, 2, h.Store().Len())
}

func TestHandler_Update(t *testing.T) {
	t.Run("change validates and patches the fields", func(t *testing.T) {
		h := newHandler(t, &submissions{})
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/attributes/email?event=change", `{"name":"","email":"x"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, "x is not a valid email address.")
		assert.Contains(t, body, "has-error")
		assert.Contains(t, body, "Email: x is not a valid email address.", "summary lists the error")
		assert.Contains(t, body, "window.scrollTo", "first error is scrolled into view")
		assert.NotContains(t, body, "is required", "other fields stay unvalidated")
	})

	t.Run("typing does not validate by default", func(t *testing.T) {
		h := newHandler(t, &submissions{})
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/attributes/email?event=type", `{"email":"x"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "is not a valid email address")
	})

	t.Run("valid value gets the success class", func(t *testing.T) {
		h := newHandler(t, &submissions{})
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/attributes/email?event=blur", `{"email":"ann@example.com"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "has-success")
		assert.NotContains(t, rec.Body.String(), "window.scrollTo")
	})

	t.Run("request failures", func(t *testing.T) {
		h := newHandler(t, &submissions{})
		id, _ := open(t, h)

		tests := []struct {
			name   string
			path   string
			body   string
			status int
		}{
			{"unknown form", "/forms/missing/attributes/email?event=change", `{}`, http.StatusNotFound},
			{"unknown attribute", "/forms/" + id + "/attributes/ghost?event=change", `{}`, http.StatusNotFound},
			{"unknown event", "/forms/" + id + "/attributes/email?event=hover", `{}`, http.StatusBadRequest},
			{"broken signals", "/forms/" + id + "/attributes/email?event=change", `{`, http.StatusBadRequest},
			{"stream without datastar", "/forms/" + id + "/attributes/email?event=change", `{"email":"x"}`, http.StatusBadRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := post(h, tt.path, tt.body, false)
				assert.Equal(t, tt.status, rec.Code)
			})
		}
	})

	t.Run("datastar failures become alerts", func(t *testing.T) {
		h := newHandler(t, &submissions{})

		rec := post(h, "/forms/missing/attributes/email?event=change", `{}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alert-danger")
		assert.Contains(t, rec.Body.String(), "form_not_found")
	})
}

func TestHandler_Submit(t *testing.T) {
	t.Run("invalid values block the submit handler", func(t *testing.T) {
		sub := &submissions{}
		h := newHandler(t, sub)
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/submit", `{"name":"","email":""}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, "Name: is required")
		assert.Contains(t, body, "Email: is required")
		assert.Empty(t, sub.calls())
		assert.Equal(t, 1, h.Store().Len(), "the form stays live")
	})

	t.Run("valid values are submitted", func(t *testing.T) {
		sub := &submissions{}
		h := newHandler(t, sub)
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/submit", `{"name":"Ann","email":"ann@example.com"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, rec.Body.String(), "alert-success")
		assert.Equal(t, []form.Values{{"name": "Ann", "email": "ann@example.com"}}, sub.calls())
		assert.Zero(t, h.Store().Len(), "submitted forms leave the store")

		rec = post(h, "/forms/"+id+"/submit", `{}`, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("handler failure is reported without leaking details", func(t *testing.T) {
		sub := &submissions{err: errors.New("database is down")}
		h := newHandler(t, sub)
		id, _ := open(t, h)

		rec := post(h, "/forms/"+id+"/submit", `{"name":"Ann","email":"ann@example.com"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, "alert-danger")
		assert.Contains(t, body, http.StatusText(http.StatusInternalServerError))
		assert.NotContains(t, body, "database is down")
		assert.Equal(t, 1, h.Store().Len())
	})
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  map[string]string
		query    string
		expected bool
	}{
		{name: "request header", headers: map[string]string{"Datastar-Request": "true"}, expected: true},
		{name: "SSE accept header", headers: map[string]string{"Accept": "text/html, text/event-stream"}, expected: true},
		{name: "signals query", query: `?datastar={"email":"x"}`, expected: true},
		{name: "regular request", headers: map[string]string{"Accept": "text/html"}, expected: false},
		{name: "no headers", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, handler.IsDataStar(req))
		})
	}
}
