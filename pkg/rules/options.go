package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Options holds the parameters a validator is bound with. Values usually come
// from YAML or JSON definitions, so numbers may arrive as int or float64 and
// patterns as strings.
type Options map[string]any

// Has reports whether key is present, even with a nil value.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Any returns the raw value stored under key.
func (o Options) Any(key string) any {
	return o[key]
}

// Bool returns the boolean under key, or def when absent or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// String returns the string under key, or def when absent or empty.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Float returns the number under key.
func (o Options) Float(key string) (float64, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, false
	}
	return toFloat(v)
}

// Int returns the number under key truncated to int.
func (o Options) Int(key string) (int, bool) {
	f, ok := o.Float(key)
	return int(f), ok
}

// Strings returns the list under key. A single string becomes a one-element list.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	}
	return nil
}

// List returns the list under key as []any.
func (o Options) List(key string) []any {
	switch v := o[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	}
	return nil
}

// Sub returns the nested options under key.
func (o Options) Sub(key string) Options {
	switch v := o[key].(type) {
	case Options:
		return v
	case map[string]any:
		return Options(v)
	}
	return Options{}
}

// Pattern compiles the pattern under key, falling back to def. Patterns may
// use the slash-delimited form with flags, e.g. "/^[a-z]+$/i".
func (o Options) Pattern(key, def string) (*regexp.Regexp, error) {
	switch v := o[key].(type) {
	case *regexp.Regexp:
		return v, nil
	case string:
		if v != "" {
			return compilePattern(v)
		}
	}
	return compilePattern(def)
}

var patternCache sync.Map // string -> *regexp.Regexp

func compilePattern(src string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(src); ok {
		return re.(*regexp.Regexp), nil
	}

	expr := src
	if len(src) > 1 && src[0] == '/' {
		if end := strings.LastIndexByte(src, '/'); end > 0 {
			expr = src[1:end]
			flags := ""
			for _, f := range src[end+1:] {
				switch f {
				case 'i', 'm', 's':
					flags += string(f)
				case 'g', 'u':
					// no RE2 equivalent needed
				default:
					return nil, fmt.Errorf("%w: unsupported pattern flag %q in %s", ErrInvalidOption, f, src)
				}
			}
			if flags != "" {
				expr = "(?" + flags + ")" + expr
			}
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	patternCache.Store(src, re)
	return re, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// looseEqual compares numerically when both sides convert to numbers and by
// string form otherwise.
func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return stringify(a) == stringify(b)
}

// strictEqual requires identical dynamic types, comparing numbers by value.
func strictEqual(a, b any) bool {
	if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
		return false
	}
	return looseEqual(a, b)
}
