package field

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ActiveField renders label, input, hint and first error of one field.
// Once validated the wrapper carries the success or error CSS class.
func ActiveField(h Handle, f Field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rd, err := h.registry.Lookup(f.Type)
		if err != nil {
			return err
		}
		rec, _ := h.Snapshot.Record(f.Attribute)
		id := h.InputID(f.Attribute)
		props := Props{ID: id, Field: f, Record: rec, Action: h.action(f.Attribute)}

		if f.Type == TypeHidden {
			return rd.Input(props).Render(ctx, w)
		}

		classes := []string{"form-group", "field-" + id}
		if rec.Validated() {
			if rec.HasErrors() {
				classes = append(classes, h.Config.ErrorCSSClass)
			} else {
				classes = append(classes, h.Config.SuccessCSSClass)
			}
		}

		hw := &htmlWriter{w: w}
		hw.open("div", attrs{}.set("id", h.WrapperID(f.Attribute)).set("class", strings.Join(classes, " ")))

		inline, _ := rd.(inlineLabeler)
		if f.Label != "" && (inline == nil || !inline.InlineLabel()) {
			hw.element("label", attrs{}.set("class", "control-label").set("for", id), f.Label)
		}
		if hw.err != nil {
			return hw.err
		}
		if err := rd.Input(props).Render(ctx, w); err != nil {
			return err
		}
		if f.Hint != "" {
			hw.element("div", attrs{}.set("class", "hint-block"), f.Hint)
		}
		hw.element("div", attrs{}.set("class", "help-block"), rec.FirstError())
		hw.close("div")
		return hw.err
	})
}

// ErrorSummary lists every error of the snapshot in attribute order. With
// no errors it renders an empty hidden block so it can be patched later.
func ErrorSummary(h Handle, header string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		a := attrs{}.set("id", h.SummaryID()).set("class", "error-summary")
		if !h.Snapshot.HasErrors() {
			hw.open("div", a.flag("hidden", true))
			hw.close("div")
			return hw.err
		}

		hw.open("div", a)
		if header != "" {
			hw.element("p", nil, header)
		}
		hw.open("ul", nil)
		for _, name := range h.Snapshot.Attributes() {
			rec, _ := h.Snapshot.Record(name)
			for _, msg := range rec.Errors {
				if rec.Label != "" {
					msg = rec.Label + ": " + msg
				}
				hw.element("li", nil, msg)
			}
		}
		hw.close("ul")
		hw.close("div")
		return hw.err
	})
}
