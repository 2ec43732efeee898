package field

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/activeform/form"
)

// Handle is passed explicitly to every field of a form. It carries the
// form identity, the snapshot being rendered and the way back to the
// engine.
type Handle struct {
	FormID   string
	Config   form.Config
	Snapshot form.Snapshot
	// Endpoint is the base path of the form routes. Empty renders inputs
	// without datastar actions.
	Endpoint string

	form     *form.Form
	registry *Registry
}

// NewHandle captures the current snapshot of f.
func NewHandle(f *form.Form, reg *Registry, endpoint string) Handle {
	return Handle{
		FormID:   f.ID(),
		Config:   f.Config(),
		Snapshot: f.Snapshot(),
		Endpoint: strings.TrimRight(endpoint, "/"),
		form:     f,
		registry: reg,
	}
}

// Refresh returns the handle with a new snapshot.
func (h Handle) Refresh() Handle {
	h.Snapshot = h.form.Snapshot()
	return h
}

// InputID returns the DOM id of the attribute's input.
func (h Handle) InputID(attribute string) string {
	return InputID(h.FormID, attribute)
}

// InputID builds the DOM id of an input. It is also the scroll reference
// registered for the attribute.
func InputID(formID, attribute string) string {
	var b strings.Builder
	b.WriteString("af-")
	b.WriteString(formID)
	b.WriteByte('-')
	for _, r := range attribute {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// WrapperID returns the DOM id of the ActiveField wrapper.
func (h Handle) WrapperID(attribute string) string {
	return h.InputID(attribute) + "-field"
}

// SummaryID returns the DOM id of the ErrorSummary block.
func (h Handle) SummaryID() string {
	return "af-" + h.FormID + "-summary"
}

// AttributeURL is the endpoint receiving input events for attribute.
func (h Handle) AttributeURL(attribute string, e Event) string {
	return fmt.Sprintf("%s/attributes/%s?event=%s", h.Endpoint, url.PathEscape(attribute), e)
}

// SubmitURL is the endpoint receiving the form submission.
func (h Handle) SubmitURL() string {
	return h.Endpoint + "/submit"
}

func (h Handle) action(attribute string) func(Event) string {
	if h.Endpoint == "" {
		return nil
	}
	return func(e Event) string {
		return datastar.PostSSE("%s", h.AttributeURL(attribute, e))
	}
}

// Update decodes the posted value of attribute with its renderer and
// forwards it to the engine, validating when the renderer asks for it.
func (h Handle) Update(ctx context.Context, attribute string, e Event, s Signals) error {
	rec, ok := h.form.Record(attribute)
	if !ok {
		return fmt.Errorf("%w: %q", form.ErrUnknownAttribute, attribute)
	}
	rd, err := h.registry.Lookup(rec.Type)
	if err != nil {
		return err
	}
	value, err := rd.Decode(attribute, s)
	if err != nil {
		return err
	}
	return h.form.UpdateAttribute(ctx, attribute, form.SetValue(value), rd.ValidateOn(e, rec.Options))
}

// Decode turns posted signals into values for every attribute of the
// snapshot that has a signal. Attributes without one keep their value.
func (h Handle) Decode(s Signals) (form.Values, error) {
	values := make(form.Values, len(s))
	for _, attribute := range h.Snapshot.Attributes() {
		if _, ok := s[attribute]; !ok {
			continue
		}
		rec, _ := h.Snapshot.Record(attribute)
		rd, err := h.registry.Lookup(rec.Type)
		if err != nil {
			return nil, err
		}
		v, err := rd.Decode(attribute, s)
		if err != nil {
			return nil, err
		}
		values[attribute] = v
	}
	return values, nil
}

// Mount registers fields with the form: records are created with their
// resolved options, rules, labels and initial values, and inputs are
// registered as scroll targets.
func Mount(f *form.Form, reg *Registry, fields ...Field) error {
	for _, fd := range fields {
		if _, err := reg.Lookup(fd.Type); err != nil {
			return fmt.Errorf("field %q: %w", fd.Attribute, err)
		}
		err := f.Register(fd.Attribute, fd.Overrides,
			form.SetType(fd.Type),
			form.SetLabel(fd.Label),
			form.SetHint(fd.Hint),
			form.SetRules(fd.Rules...),
			form.SetValue(fd.Initial),
		)
		if err != nil {
			return err
		}
		if fd.Type == TypeFile {
			f.SetHasFile()
		}
		f.RegisterFieldRef(fd.Attribute, "#"+InputID(f.ID(), fd.Attribute))
	}
	return nil
}
