package rules

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Messages is an ordered list of violation messages. Empty means valid.
type Messages []string

// Func validates value with the options it was bound with.
type Func func(ctx context.Context, value any, opts Options) (Messages, error)

// Registry maps validator names to functions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Builtins returns a new registry holding the standard validators.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register("required", Required)
	r.Register("boolean", Boolean)
	r.Register("string", String)
	r.Register("number", Number)
	r.Register("range", Range)
	r.Register("regularExpression", RegularExpression)
	r.Register("email", Email)
	r.Register("url", URL)
	r.Register("captcha", Captcha)
	r.Register("compare", Compare)
	r.Register("ip", IP)
	r.Register("file", File)
	r.Register("image", Image)
	return r
}

// Register adds fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn Func) {
	if name == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsEmpty reports whether value counts as "not provided": nil, the empty
// string, or an empty slice.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// prepare substitutes the {value} placeholder.
func prepare(message string, value any) string {
	if message == "" {
		return ""
	}
	return strings.ReplaceAll(message, "{value}", stringify(value))
}

func one(message string, value any) Messages {
	return Messages{prepare(message, value)}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(value)
}
