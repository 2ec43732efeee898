package rules

import (
	"context"
	"strings"
)

const (
	defaultRequiredMessage = "is required"
	defaultBooleanMessage  = "must be either \"{true}\" or \"{false}\"."
)

// Required fails when the value is empty. Strings are trimmed first unless
// strict is set, in which case any falsy value fails. With requiredValue the
// value must equal it instead.
//
// Options: requiredValue, strict, message.
func Required(_ context.Context, value any, opts Options) (Messages, error) {
	strict := opts.Bool("strict", false)
	message := opts.String("message", defaultRequiredMessage)

	var valid bool
	if opts.Has("requiredValue") {
		if strict {
			valid = strictEqual(value, opts.Any("requiredValue"))
		} else {
			valid = looseEqual(value, opts.Any("requiredValue"))
		}
	} else if strict {
		valid = truthy(value)
	} else {
		v := value
		if s, ok := value.(string); ok {
			v = strings.TrimSpace(s)
		}
		valid = !IsEmpty(v)
	}

	if !valid {
		return one(message, value), nil
	}
	return nil, nil
}

// Boolean fails unless the value equals trueValue or falseValue.
//
// Options: skipOnEmpty, strict, trueValue (default "1"), falseValue
// (default "0"), message.
func Boolean(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	trueValue := any("1")
	if opts.Has("trueValue") {
		trueValue = opts.Any("trueValue")
	}
	falseValue := any("0")
	if opts.Has("falseValue") {
		falseValue = opts.Any("falseValue")
	}

	eq := looseEqual
	if opts.Bool("strict", false) {
		eq = strictEqual
	}
	if eq(value, trueValue) || eq(value, falseValue) {
		return nil, nil
	}

	message := opts.String("message", defaultBooleanMessage)
	message = strings.NewReplacer("{true}", stringify(trueValue), "{false}", stringify(falseValue)).Replace(message)
	return one(message, value), nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	if f, ok := toFloat(value); ok {
		return f != 0
	}
	return true
}
