package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
)

const (
	alertID = "af-alert"

	// DefaultScriptURL loads the datastar client bundle.
	DefaultScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	// DefaultSummaryHeader introduces the error summary.
	DefaultSummaryHeader = "Please fix the following errors:"
)

// SuccessView renders what replaces a form after a successful submit.
type SuccessView func(s *Session, values form.Values) templ.Component

func formDOMID(formID string) string { return "af-" + formID }

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func esc(s string) string { return templ.EscapeString(s) }

func page(title, scriptURL string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.printf(`<title>%s</title><script type="module" src="%s"></script></head>`, esc(title), esc(scriptURL))
		w.printf(`<body><main class="container">`)
		if title != "" {
			w.printf(`<h1>%s</h1>`, esc(title))
		}
		w.printf(`<div id="%s"></div>`, alertID)
		w.component(ctx, body)
		w.printf(`</main></body></html>`)
		return w.err
	})
}

// formView renders the whole form. Forms with an action post natively;
// the others submit through the datastar endpoint.
func formView(hd field.Handle, s *Session, summaryHeader string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.printf(`<form id="%s" novalidate`, formDOMID(hd.FormID))
		if hd.Config.Action != "" {
			w.printf(` method="post" action="%s"`, esc(hd.Config.Action))
			if enc := hd.Snapshot.EncType(); enc != "" {
				w.printf(` enctype="%s"`, enc)
			}
		} else {
			w.printf(` data-on:submit="%s"`, esc(datastar.PostSSE("%s", hd.SubmitURL())))
		}
		w.printf(`>`)

		w.component(ctx, field.ErrorSummary(hd, summaryHeader))
		for _, fd := range s.Fields {
			w.component(ctx, field.ActiveField(hd, fd))
		}

		label := s.Submit
		if label == "" {
			label = "Submit"
		}
		w.printf(`<div class="form-group"><button type="submit" class="btn btn-primary">%s</button></div></form>`, esc(label))
		return w.err
	})
}

func alertView(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		if message == "" {
			w.printf(`<div id="%s"></div>`, alertID)
		} else {
			w.printf(`<div id="%s" class="alert alert-danger" role="alert">%s</div>`, alertID, esc(message))
		}
		return w.err
	})
}

func defaultSuccess(s *Session, _ form.Values) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.printf(`<div id="%s" class="alert alert-success" role="status">`, formDOMID(s.Form.ID()))
		if s.Title != "" {
			w.printf(`<strong>%s</strong> `, esc(s.Title))
		}
		w.printf(`submitted.</div>`)
		return w.err
	})
}
