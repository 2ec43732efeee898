package rules

import "errors"

var (
	// ErrUnknownValidator is returned when a rule references a validator name
	// that is not registered.
	ErrUnknownValidator = errors.New("rules: unknown validator")

	// ErrInvalidOption is returned when an option has an unusable value, such
	// as a pattern that does not compile.
	ErrInvalidOption = errors.New("rules: invalid option")

	// ErrFileUnreadable is returned when an uploaded file cannot be opened.
	ErrFileUnreadable = errors.New("rules: file cannot be read")
)
