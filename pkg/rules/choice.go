package rules

import "context"

const (
	defaultRangeMessage = "{value} is invalid."
	defaultRegexMessage = "{value} is invalid."
)

// Range checks that the value, or every element of a list value, is one of
// range. Elements are compared by their string form because submitted form
// values are strings. With not set the check is inverted.
//
// Options: skipOnEmpty, allowArray, not, range, message.
func Range(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	message := opts.String("message", defaultRangeMessage)
	values, isList := asList(value)
	if isList && !opts.Bool("allowArray", false) {
		return one(message, value), nil
	}

	allowed := opts.List("range")
	inRange := true
	for _, v := range values {
		if !contains(allowed, v) {
			inRange = false
			break
		}
	}

	if opts.Bool("not", false) == inRange {
		return one(message, value), nil
	}
	return nil, nil
}

// RegularExpression checks the value against pattern, or requires a mismatch
// when not is set.
//
// Options: skipOnEmpty, not, pattern, message.
func RegularExpression(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	pattern, err := opts.Pattern("pattern", "")
	if err != nil {
		return nil, err
	}

	matched := pattern.MatchString(stringify(value))
	if matched == opts.Bool("not", false) {
		return one(opts.String("message", defaultRegexMessage), value), nil
	}
	return nil, nil
}

func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []any:
		return v, true
	}
	return []any{value}, false
}

func contains(list []any, v any) bool {
	s := stringify(v)
	for _, item := range list {
		if stringify(item) == s {
			return true
		}
	}
	return false
}
