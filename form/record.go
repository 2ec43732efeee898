package form

import (
	"slices"

	"github.com/dmitrymomot/activeform/pkg/rules"
)

// Rule binds a validator to an attribute: either a named validator resolved
// against the form's registry, or a raw Func.
type Rule struct {
	Validator string
	Options   rules.Options
	Func      rules.Func
}

// Record is the state tracked per form attribute.
type Record struct {
	Type  string
	Label string
	Hint  string
	Value any

	// Errors holds the messages of the latest validation pass. Nil means
	// the attribute has not been validated yet.
	Errors []string

	Rules   []Rule
	Options ValidationOptions
}

// Validated reports whether at least one validation pass has completed.
func (r Record) Validated() bool { return r.Errors != nil }

// HasErrors reports whether the latest pass found violations.
func (r Record) HasErrors() bool { return len(r.Errors) > 0 }

// FirstError returns the first message, or "".
func (r Record) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

func (r Record) clone() Record {
	r.Errors = cloneErrors(r.Errors)
	r.Rules = slices.Clone(r.Rules)
	if list, ok := r.Value.([]string); ok {
		r.Value = slices.Clone(list)
	}
	return r
}

func cloneErrors(errs []string) []string {
	if errs == nil {
		return nil
	}
	return append(make([]string, 0, len(errs)), errs...)
}

// Patch is a partial record update. Fields it does not touch are retained.
type Patch func(*Record)

func SetValue(v any) Patch { return func(r *Record) { r.Value = v } }

func SetRules(rs ...Rule) Patch { return func(r *Record) { r.Rules = slices.Clone(rs) } }

func SetLabel(s string) Patch { return func(r *Record) { r.Label = s } }

func SetHint(s string) Patch { return func(r *Record) { r.Hint = s } }

func SetType(s string) Patch { return func(r *Record) { r.Type = s } }

func SetOptions(o ValidationOptions) Patch { return func(r *Record) { r.Options = o } }

// SetErrors replaces the error list. Client code rarely needs it outside of
// seeding server-rendered errors.
func SetErrors(errs ...string) Patch {
	return func(r *Record) { r.Errors = append(make([]string, 0, len(errs)), errs...) }
}

// Merge applies patches in order.
func Merge(patches ...Patch) Patch {
	return func(r *Record) {
		for _, p := range patches {
			if p != nil {
				p(r)
			}
		}
	}
}

// dedupe concatenates lists keeping the first occurrence of each message.
// The result is never nil.
func dedupe(lists ...[]string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, msg := range list {
			if _, ok := seen[msg]; ok {
				continue
			}
			seen[msg] = struct{}{}
			out = append(out, msg)
		}
	}
	return out
}
