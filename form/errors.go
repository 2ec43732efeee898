package form

import "errors"

var (
	// ErrInvalidConfig is returned by New for unusable configuration.
	ErrInvalidConfig = errors.New("form: invalid configuration")

	// ErrUnknownAttribute is returned when validating an attribute the form
	// does not hold.
	ErrUnknownAttribute = errors.New("form: unknown attribute")

	// ErrRuleFailed wraps faults raised by a validator function. Rule
	// violations are reported as messages, never through this error.
	ErrRuleFailed = errors.New("form: rule failed")

	// ErrRemoteValidation wraps failures of the remote validator. Every
	// caller waiting on the failing batch receives it.
	ErrRemoteValidation = errors.New("form: remote validation failed")

	// ErrNoSubmitHandler is returned by Submit when the form neither posts
	// natively nor has a submit handler.
	ErrNoSubmitHandler = errors.New("form: no submit handler")
)
