package form

import "slices"

// Values maps attribute names to their current values.
type Values map[string]any

// Snapshot is an immutable copy of the form model.
type Snapshot struct {
	id         string
	encType    string
	attributes []string
	records    map[string]Record
}

// ID returns the form identifier.
func (s Snapshot) ID() string { return s.id }

// EncType returns "multipart/form-data" once a file input is mounted.
func (s Snapshot) EncType() string { return s.encType }

// Attributes returns attribute names in declaration order.
func (s Snapshot) Attributes() []string { return slices.Clone(s.attributes) }

func (s Snapshot) Len() int { return len(s.attributes) }

// Record returns a copy of the attribute state.
func (s Snapshot) Record(attribute string) (Record, bool) {
	r, ok := s.records[attribute]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

func (s Snapshot) Values() Values {
	values := make(Values, len(s.records))
	for name, r := range s.records {
		values[name] = r.clone().Value
	}
	return values
}

// Errors returns the attributes that currently have messages.
func (s Snapshot) Errors() map[string][]string {
	out := make(map[string][]string)
	for name, r := range s.records {
		if r.HasErrors() {
			out[name] = cloneErrors(r.Errors)
		}
	}
	return out
}

func (s Snapshot) HasErrors() bool {
	for _, r := range s.records {
		if r.HasErrors() {
			return true
		}
	}
	return false
}

// FirstError returns the first attribute in declaration order that has
// messages.
func (s Snapshot) FirstError() (string, bool) {
	for _, name := range s.attributes {
		if s.records[name].HasErrors() {
			return name, true
		}
	}
	return "", false
}
