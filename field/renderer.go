package field

import (
	"fmt"
	"slices"
	"sync"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/activeform/form"
)

// Built-in field types.
const (
	TypeText         = "text"
	TypePassword     = "password"
	TypeHidden       = "hidden"
	TypeFile         = "file"
	TypeTextarea     = "textarea"
	TypeRadio        = "radio"
	TypeCheckbox     = "checkbox"
	TypeDropdown     = "dropdown"
	TypeListbox      = "listbox"
	TypeCheckboxList = "checkboxlist"
	TypeRadioList    = "radiolist"
)

// Renderer draws one input type and interprets what the browser posts
// back for it.
type Renderer interface {
	Input(p Props) templ.Component
	// Decode turns the posted signals into the attribute value.
	Decode(attribute string, s Signals) (any, error)
	// ValidateOn reports whether e should run a validation pass.
	ValidateOn(e Event, o form.ValidationOptions) bool
}

// inlineLabeler is implemented by renderers that draw their own label.
type inlineLabeler interface {
	InlineLabel() bool
}

// Registry maps field types to renderers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Builtins returns a new registry with the standard input types.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(TypeText, textInput{typ: "text"})
	r.Register(TypePassword, textInput{typ: "password"})
	r.Register(TypeHidden, textInput{typ: "hidden"})
	r.Register(TypeFile, fileInput{})
	r.Register(TypeTextarea, textarea{})
	r.Register(TypeRadio, toggle{typ: "radio"})
	r.Register(TypeCheckbox, toggle{typ: "checkbox"})
	r.Register(TypeDropdown, selectInput{})
	r.Register(TypeListbox, selectInput{listbox: true})
	r.Register(TypeCheckboxList, choiceList{typ: "checkbox"})
	r.Register(TypeRadioList, choiceList{typ: "radio"})
	return r
}

// Register adds or replaces the renderer for typ.
func (r *Registry) Register(typ string, rd Renderer) {
	if typ == "" || rd == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[typ] = rd
}

func (r *Registry) Lookup(typ string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.renderers[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, typ)
	}
	return rd, nil
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.renderers))
	for typ := range r.renderers {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

// typedValidateOn is the policy of free-text inputs.
func typedValidateOn(e Event, o form.ValidationOptions) bool {
	switch e {
	case EventType:
		return o.ValidateOnType
	case EventChange:
		return o.ValidateOnChange
	case EventBlur:
		return o.ValidateOnBlur
	}
	return false
}

// choiceValidateOn is the policy of inputs without typing.
func choiceValidateOn(e Event, o form.ValidationOptions) bool {
	if e == EventType {
		return false
	}
	return typedValidateOn(e, o)
}
