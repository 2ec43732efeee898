package field

import (
	"fmt"

	"github.com/dmitrymomot/activeform/form"
)

// Event is an input interaction that may trigger validation.
type Event string

const (
	EventChange Event = "change"
	EventBlur   Event = "blur"
	EventType   Event = "type"
)

// ParseEvent parses the event name sent by the browser.
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventChange, EventBlur, EventType:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// DOM returns the browser event name the input listens to.
func (e Event) DOM() string {
	if e == EventType {
		return "input"
	}
	return string(e)
}

// Choice is one option of a list input.
type Choice struct {
	Value string
	Label string
}

// Field declares one form input.
type Field struct {
	Attribute   string
	Type        string
	Label       string
	Hint        string
	Placeholder string
	Multiple    bool
	Choices     []Choice
	Overrides   form.FieldOverrides
	Rules       []form.Rule
	Initial     any
}

// Props is what a renderer receives to draw an input.
type Props struct {
	ID     string
	Field  Field
	Record form.Record
	// Action returns the datastar expression posting the event, or "" when
	// the field is not connected to an endpoint.
	Action func(Event) string
}

func (p Props) action(e Event) string {
	if p.Action == nil {
		return ""
	}
	return p.Action(e)
}
