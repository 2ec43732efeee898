package field

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/activeform/form"
)

const defaultListboxSize = 4

func baseAttrs(p Props) attrs {
	a := attrs{}.set("id", p.ID).set("name", p.Field.Attribute)
	if p.Record.HasErrors() {
		a = a.set("aria-invalid", "true")
	}
	return a
}

func bind(a attrs, p Props, events ...Event) attrs {
	a = a.set("data-bind", p.Field.Attribute)
	for _, e := range events {
		a = a.opt("data-on:"+e.DOM(), p.action(e))
	}
	return a
}

func valueString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	}
	return decodeString(v)
}

func checked(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return decodeBool(v) || v == "1"
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func selected(v any) map[string]bool {
	set := make(map[string]bool)
	switch v := v.(type) {
	case nil:
	case string:
		set[v] = true
	default:
		for _, s := range decodeList(v) {
			set[s] = true
		}
	}
	return set
}

type textInput struct{ typ string }

func (t textInput) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		a := attrs{}.set("type", t.typ)
		a = append(a, baseAttrs(p)...)
		if t.typ != "hidden" {
			a = a.set("class", "form-control").opt("placeholder", p.Field.Placeholder)
		}
		a = a.set("value", valueString(p.Record.Value))
		if t.typ == "hidden" {
			a = bind(a, p)
		} else {
			a = bind(a, p, EventChange, EventBlur, EventType)
		}
		h.open("input", a)
		return h.err
	})
}

func (textInput) Decode(attribute string, s Signals) (any, error) {
	return decodeString(s[attribute]), nil
}

func (t textInput) ValidateOn(e Event, o form.ValidationOptions) bool {
	if t.typ == "hidden" {
		return false
	}
	return typedValidateOn(e, o)
}

type textarea struct{}

func (textarea) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		a := baseAttrs(p).set("class", "form-control").opt("placeholder", p.Field.Placeholder)
		h.element("textarea", bind(a, p, EventChange, EventBlur, EventType), valueString(p.Record.Value))
		return h.err
	})
}

func (textarea) Decode(attribute string, s Signals) (any, error) {
	return decodeString(s[attribute]), nil
}

func (textarea) ValidateOn(e Event, o form.ValidationOptions) bool { return typedValidateOn(e, o) }

type fileInput struct{}

func (fileInput) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		a := attrs{}.set("type", "file")
		a = append(a, baseAttrs(p)...)
		a = a.flag("multiple", p.Field.Multiple)
		h.open("input", bind(a, p, EventChange, EventBlur))
		return h.err
	})
}

func (fileInput) Decode(attribute string, s Signals) (any, error) {
	uploads, err := decodeFiles(attribute, s)
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func (fileInput) ValidateOn(e Event, o form.ValidationOptions) bool { return choiceValidateOn(e, o) }

// toggle is a single checkbox or radio button bound to a boolean.
type toggle struct{ typ string }

func (t toggle) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.open("div", attrs{}.set("class", t.typ))
		h.open("label", attrs{}.set("for", p.ID))
		a := attrs{}.set("type", t.typ)
		a = append(a, baseAttrs(p)...)
		a = a.set("value", "1").flag("checked", checked(p.Record.Value))
		h.open("input", bind(a, p, EventChange, EventBlur))
		h.raw(" ")
		h.text(p.Field.Label)
		h.close("label")
		h.close("div")
		return h.err
	})
}

func (toggle) Decode(attribute string, s Signals) (any, error) {
	return decodeBool(s[attribute]), nil
}

func (toggle) ValidateOn(e Event, o form.ValidationOptions) bool { return choiceValidateOn(e, o) }

func (toggle) InlineLabel() bool { return true }

type selectInput struct{ listbox bool }

func (s selectInput) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		a := baseAttrs(p).set("class", "form-control")
		if s.listbox {
			a = a.set("size", strconv.Itoa(defaultListboxSize))
		}
		a = a.flag("multiple", s.listbox && p.Field.Multiple)
		h.open("select", bind(a, p, EventChange, EventBlur))

		picked := selected(p.Record.Value)
		if p.Field.Placeholder != "" && !p.Field.Multiple {
			h.element("option", attrs{}.set("value", ""), p.Field.Placeholder)
		}
		for _, c := range p.Field.Choices {
			h.element("option", attrs{}.set("value", c.Value).flag("selected", picked[c.Value]), c.Label)
		}

		h.close("select")
		return h.err
	})
}

func (s selectInput) Decode(attribute string, sig Signals) (any, error) {
	return decodeChoice(attribute, sig, s.listbox)
}

func (selectInput) ValidateOn(e Event, o form.ValidationOptions) bool { return choiceValidateOn(e, o) }

// choiceList renders one checkbox or radio button per choice.
type choiceList struct{ typ string }

func (c choiceList) Input(p Props) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.open("div", attrs{}.set("id", p.ID).set("role", "group"))

		picked := selected(p.Record.Value)
		name := p.Field.Attribute
		if c.typ == "checkbox" {
			name += "[]"
		}
		for i, choice := range p.Field.Choices {
			id := fmt.Sprintf("%s-%d", p.ID, i)
			h.open("div", attrs{}.set("class", c.typ))
			h.open("label", attrs{}.set("for", id))
			a := attrs{}.set("type", c.typ).set("id", id).set("name", name).set("value", choice.Value)
			a = a.flag("checked", picked[choice.Value])
			h.open("input", bind(a, p, EventChange))
			h.raw(" ")
			h.text(choice.Label)
			h.close("label")
			h.close("div")
		}

		h.close("div")
		return h.err
	})
}

func (c choiceList) Decode(attribute string, s Signals) (any, error) {
	if c.typ == "checkbox" {
		return decodeList(s[attribute]), nil
	}
	return decodeString(s[attribute]), nil
}

func (choiceList) ValidateOn(e Event, o form.ValidationOptions) bool { return choiceValidateOn(e, o) }

func decodeChoice(attribute string, s Signals, allowList bool) (any, error) {
	raw := s[attribute]
	switch raw.(type) {
	case []any, []string:
		if !allowList {
			return nil, fmt.Errorf("%w: %s: expected a single choice", ErrInvalidValue, attribute)
		}
		return decodeList(raw), nil
	}
	return decodeString(raw), nil
}
