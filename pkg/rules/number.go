package rules

import (
	"context"
	"fmt"
)

const (
	defaultNumberPattern  = `^\s*[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?\s*$`
	defaultIntegerPattern = `^\s*[+-]?\d+\s*$`

	defaultNumberMessage  = "{value} must be a number."
	defaultTooSmallNumber = "{value} is too small."
	defaultTooBigNumber   = "{value} is too big."
	defaultCompareMessage = "{value} is invalid."
)

// Number checks string input against pattern and compares the numeric value
// with min and max.
//
// Options: skipOnEmpty, integerOnly, pattern, message, min, tooSmall, max,
// tooBig.
func Number(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	def := defaultNumberPattern
	if opts.Bool("integerOnly", false) {
		def = defaultIntegerPattern
	}
	pattern, err := opts.Pattern("pattern", def)
	if err != nil {
		return nil, err
	}

	if s, ok := value.(string); ok && !pattern.MatchString(s) {
		return one(opts.String("message", defaultNumberMessage), value), nil
	}

	n, ok := toFloat(value)
	if !ok {
		return one(opts.String("message", defaultNumberMessage), value), nil
	}

	var msgs Messages
	if minVal, ok := opts.Float("min"); ok && n < minVal {
		msgs = append(msgs, prepare(opts.String("tooSmall", defaultTooSmallNumber), value))
	}
	if maxVal, ok := opts.Float("max"); ok && n > maxVal {
		msgs = append(msgs, prepare(opts.String("tooBig", defaultTooBigNumber), value))
	}
	return msgs, nil
}

// Compare compares the value with compareValue using operator. With type
// "number" both sides are parsed as numbers; otherwise they are compared as
// strings.
//
// Options: skipOnEmpty, compareValue, type, operator (default "=="), message.
func Compare(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	operator := opts.String("operator", "==")
	compareValue := opts.Any("compareValue")

	var cmp int
	defined := true
	if opts.String("type", "string") == "number" {
		a, okA := toFloat(value)
		b, okB := toFloat(compareValue)
		// NaN never compares equal, matching parseFloat on garbage
		defined = okA && okB
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		a, b := stringify(value), stringify(compareValue)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	}

	var valid bool
	switch operator {
	case "==":
		valid = defined && cmp == 0
	case "===":
		valid = defined && cmp == 0 && sameType(value, compareValue, opts)
	case "!=":
		valid = !defined || cmp != 0
	case "!==":
		valid = !defined || cmp != 0 || !sameType(value, compareValue, opts)
	case ">":
		valid = defined && cmp > 0
	case ">=":
		valid = defined && cmp >= 0
	case "<":
		valid = defined && cmp < 0
	case "<=":
		valid = defined && cmp <= 0
	default:
		valid = false
	}

	if !valid {
		return one(opts.String("message", defaultCompareMessage), value), nil
	}
	return nil, nil
}

// sameType reports whether both operands share a type. Numeric comparison
// converts both sides first, so they always do.
func sameType(a, b any, opts Options) bool {
	if opts.String("type", "string") == "number" {
		return true
	}
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}
